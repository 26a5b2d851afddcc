package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"tilekit/common"
	"tilekit/maps"
	"tilekit/physics"
	"tilekit/tilemap"
	"tilekit/tilesets"
)

type Game struct {
	frames int
	debug  bool

	input       *Input
	tmap        *tilemap.Tilemap
	tilesetName string
	world       *physics.World
	player      *Player
	inspector   *Inspector
	watcher     *tilesets.Watcher

	camX, camY float64
}

func NewGame(levelName, tilesetName string, debug bool) *Game {
	if !strings.HasSuffix(levelName, ".json") {
		levelName += ".json"
	}

	tmap, err := tilemap.LoadFS(maps.FS(), levelName)
	if err != nil {
		log.Fatalf("failed to load map %s: %v", levelName, err)
	}

	spec, err := tilemap.LoadTileset(tilesetName)
	if err != nil {
		log.Fatalf("failed to load tileset %s: %v", tilesetName, err)
	}
	tmap.ApplyTileset(spec)

	world := physics.NewWorld(tmap)
	input := NewInput()

	spawnX, spawnY := tmap.SpawnPosition()
	player := NewPlayer(spawnX, spawnY, input, world)

	g := &Game{
		debug:       debug,
		input:       input,
		tmap:        tmap,
		tilesetName: tilesetName,
		world:       world,
		player:      player,
	}
	g.inspector = NewInspector(g)

	// A missing tilesets/ directory just means no live editing this run.
	watcher, err := tilesets.NewWatcher("tilesets", "tilesets/scripts")
	if err != nil {
		log.Printf("tileset watcher disabled: %v", err)
	} else {
		g.watcher = watcher
	}

	return g
}

func (g *Game) Update() error {
	g.frames++

	g.input.Update()

	if g.input.DebugToggled {
		g.debug = !g.debug
	}
	if g.input.InspectorToggled {
		g.inspector.Toggle()
	}

	g.drainWatcher()

	if g.inspector.Open() {
		g.inspector.Update()
		return nil
	}

	g.world.Step(1.0 / 60.0)
	g.player.Update()

	for _, ev := range g.world.DrainEvents() {
		switch ev.Name {
		case "hurt":
			if p, ok := ev.Body.UserData.(*Player); ok {
				p.Respawn()
			}
		default:
			log.Printf("tile event %q from tile %d at %d,%d", ev.Name, ev.Cell.Index, ev.Cell.X, ev.Cell.Y)
		}
	}

	g.updateCamera()

	return nil
}

// drainWatcher reapplies the tileset when a watched spec or script file
// changes on disk.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("tileset file changed: %s", path)
			changed = true
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("tileset watcher: %v", err)
		default:
			if changed {
				g.reloadTileset()
			}
			return
		}
	}
}

func (g *Game) reloadTileset() {
	spec, err := tilemap.LoadTileset(g.tilesetName)
	if err != nil {
		log.Printf("tileset reload failed, keeping current rules: %v", err)
		return
	}
	g.tmap.ApplyTileset(spec)
	g.world.DropScripts()
	g.inspector.Refresh()
	log.Printf("tileset %s reapplied", g.tilesetName)
}

// updateCamera eases the view toward the player and clamps it to the map.
func (g *Game) updateCamera() {
	bounds := g.tmap.Bounds()
	targetX := g.player.Body.Position.X + g.player.Body.Width/2 - common.BaseWidth/2
	targetY := g.player.Body.Position.Y + g.player.Body.Height/2 - common.BaseHeight/2

	g.camX = common.Lerp(g.camX, targetX, 0.15)
	g.camY = common.Lerp(g.camY, targetY, 0.15)

	g.camX = common.Clamp(g.camX, 0, max(0, bounds.R-common.BaseWidth))
	g.camY = common.Clamp(g.camY, 0, max(0, bounds.T-common.BaseHeight))
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.tmap.Draw(screen, g.camX, g.camY, 1)
	g.player.Draw(screen, g.camX, g.camY, 1)

	if g.debug {
		g.tmap.DrawDebug(screen, g.camX, g.camY, 1)
		g.world.DrawDebug(screen, g.camX, g.camY, 1)
	}

	g.inspector.Draw(screen)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()))
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
