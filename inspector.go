package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
	"gopkg.in/yaml.v3"

	"tilekit/collide"
	"tilekit/common"
)

// Inspector is a runtime collision-rule editor: pick a tile type, flip its
// face flags live, and copy the resulting tileset snippet to the clipboard.
// Opening it pauses the world.
type Inspector struct {
	game *Game

	open     bool
	selected int // position in the sorted type list
	ui       *ebitenui.UI

	clipboardOK bool
}

func NewInspector(g *Game) *Inspector {
	ins := &Inspector{game: g}

	// clipboard.Init fails on headless setups; the copy button then
	// downgrades to a log line.
	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		ins.clipboardOK = true
	}

	ins.rebuild()
	return ins
}

func (ins *Inspector) Open() bool { return ins.open }

func (ins *Inspector) Toggle() {
	ins.open = !ins.open
	if ins.open {
		ins.rebuild()
	}
}

// Refresh rebuilds the panel after the tile-type table changed under it,
// e.g. a tileset hot reload.
func (ins *Inspector) Refresh() {
	ins.rebuild()
}

func (ins *Inspector) Update() {
	if ins.ui != nil {
		ins.ui.Update()
	}
}

func (ins *Inspector) Draw(screen *ebiten.Image) {
	if ins.open && ins.ui != nil {
		ins.ui.Draw(screen)
	}
}

func (ins *Inspector) currentTile() (int, string, collide.Flags, bool) {
	types := ins.game.tmap.TileTypes()
	if len(types) == 0 {
		return 0, "", collide.None, false
	}
	if ins.selected < 0 {
		ins.selected = 0
	}
	if ins.selected >= len(types) {
		ins.selected = len(types) - 1
	}
	t := types[ins.selected]
	return t.Index, t.Name, t.AllowCollisions, true
}

// toggleFace flips one direction bit on the selected type. Going through
// Tilemap.SetCollision with resetFirst keeps the face booleans an exact
// decomposition of the new mask.
func (ins *Inspector) toggleFace(bit collide.Flags) {
	index, _, mask, ok := ins.currentTile()
	if !ok {
		return
	}
	t := ins.game.tmap.TileType(index)
	ins.game.tmap.SetCollision(index, mask^bit, true, t.SeparateX, t.SeparateY)
	ins.rebuild()
}

func (ins *Inspector) copySnippet() {
	index, _, _, ok := ins.currentTile()
	if !ok {
		return
	}
	spec, ok := ins.game.tmap.TypeSpec(index)
	if !ok {
		return
	}
	out, err := yaml.Marshal([]any{spec})
	if err != nil {
		log.Printf("inspector: marshal type %d: %v", index, err)
		return
	}
	if !ins.clipboardOK {
		log.Printf("inspector: clipboard unavailable, snippet:\n%s", out)
		return
	}
	clipboard.Write(clipboard.FmtText, out)
}

// rebuild reconstructs the whole panel for the selected type. The panel is
// small enough that rebuilding beats keeping widget state in sync.
func (ins *Inspector) rebuild() {
	// semi-transparent panel background
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnOnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x2a, G: 0x6e, B: 0x2a, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}

	centered := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	index, name, mask, hasTile := ins.currentTile()

	heading := "Tile Inspector (no tile types)"
	if hasTile {
		if name == "" {
			name = "unnamed"
		}
		heading = fmt.Sprintf("Tile %d %q  mask: %s (%d)", index, name, mask, uint32(mask))
	}
	title := widget.NewText(
		widget.TextOpts.Text(heading, &face, white),
		widget.TextOpts.WidgetOpts(centered),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/2, common.BaseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)

	if hasTile {
		// prev/next type selection
		nav := widget.NewContainer(
			widget.ContainerOpts.Layout(widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(10),
			)),
			widget.ContainerOpts.WidgetOpts(centered),
		)
		nav.AddChild(widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
			widget.ButtonOpts.Text("< Prev", &face, btnTextColor),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				ins.selected--
				ins.rebuild()
			}),
		))
		nav.AddChild(widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
			widget.ButtonOpts.Text("Next >", &face, btnTextColor),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				ins.selected++
				ins.rebuild()
			}),
		))
		panel.AddChild(nav)

		// one toggle per face; green when the mask carries the bit
		faceRow := widget.NewContainer(
			widget.ContainerOpts.Layout(widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(10),
			)),
			widget.ContainerOpts.WidgetOpts(centered),
		)
		for _, f := range []struct {
			label string
			bit   collide.Flags
		}{
			{"Left", collide.Left},
			{"Right", collide.Right},
			{"Up", collide.Up},
			{"Down", collide.Down},
		} {
			bit := f.bit
			img := btnImg
			if mask.Has(bit) {
				img = btnOnImg
			}
			faceRow.AddChild(widget.NewButton(
				widget.ButtonOpts.Image(&widget.ButtonImage{Idle: img, Pressed: img}),
				widget.ButtonOpts.Text(f.label, &face, btnTextColor),
				widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
					ins.toggleFace(bit)
				}),
			))
		}
		panel.AddChild(faceRow)

		copyLabel := "Copy YAML"
		if !ins.clipboardOK {
			copyLabel = "Log YAML (no clipboard)"
		}
		panel.AddChild(widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
			widget.ButtonOpts.Text(copyLabel, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(centered),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				ins.copySnippet()
			}),
		))
	}

	panel.AddChild(widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text("Resume", &face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(centered),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			ins.open = false
		}),
	))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	ins.ui = &ebitenui.UI{Container: root}
}
