package tilemap

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Draw renders every visible layer as flat colored tiles. camX/camY are the
// camera view's top-left in world coordinates.
func (m *Tilemap) Draw(screen *ebiten.Image, camX, camY, zoom float64) {
	if m == nil || len(m.Layers) == 0 || m.TileWidth <= 0 || m.TileHeight <= 0 {
		return
	}
	if zoom <= 0 {
		zoom = 1
	}
	offsetX := -camX
	offsetY := -camY

	for _, layer := range m.Layers {
		if !layer.Visible {
			continue
		}
		if len(layer.Data) != m.Width*m.Height {
			// malformed layer, skip
			continue
		}
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				v := layer.Data[y*m.Width+x]
				if v == 0 {
					continue
				}
				op := &ebiten.DrawImageOptions{}
				op.GeoM.Scale(zoom, zoom)
				op.GeoM.Translate((float64(x*m.TileWidth)+offsetX)*zoom, (float64(y*m.TileHeight)+offsetY)*zoom)
				screen.DrawImage(m.typeImage(v), op)
			}
		}
	}
}

// DrawDebug overlays the collision table: one stroked edge per solid face,
// a dimmed fill on sensor tiles, and an outline on cells whose index has no
// registered type.
func (m *Tilemap) DrawDebug(screen *ebiten.Image, camX, camY, zoom float64) {
	if m == nil || m.TileWidth <= 0 || m.TileHeight <= 0 {
		return
	}
	if zoom <= 0 {
		zoom = 1
	}

	edge := color.RGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff}
	sensor := color.RGBA{R: 0xff, G: 0xa5, B: 0x00, A: 0x50}
	untyped := color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0x80}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			index := m.FirstIndexAt(x, y)
			if index == 0 {
				continue
			}

			left := float32((float64(x*m.TileWidth) - camX) * zoom)
			top := float32((float64(y*m.TileHeight) - camY) * zoom)
			w := float32(float64(m.TileWidth) * zoom)
			h := float32(float64(m.TileHeight) * zoom)
			right := left + w
			bottom := top + h

			t := m.types[index]
			if t == nil {
				vector.StrokeRect(screen, left, top, w, h, 1.0, untyped, false)
				continue
			}
			if !t.Collides() {
				continue
			}

			if !t.SeparateX || !t.SeparateY {
				vector.FillRect(screen, left, top, w, h, sensor, false)
			}

			if t.CollideLeft {
				vector.StrokeLine(screen, left, top, left, bottom, 2.0, edge, false)
			}
			if t.CollideRight {
				vector.StrokeLine(screen, right, top, right, bottom, 2.0, edge, false)
			}
			if t.CollideUp {
				vector.StrokeLine(screen, left, top, right, top, 2.0, edge, false)
			}
			if t.CollideDown {
				vector.StrokeLine(screen, left, bottom, right, bottom, 2.0, edge, false)
			}
		}
	}
}

func (m *Tilemap) typeImage(index int) *ebiten.Image {
	if img, ok := m.typeImgs[index]; ok {
		return img
	}
	if m.typeImgs == nil {
		m.typeImgs = make(map[int]*ebiten.Image)
	}
	img := ebiten.NewImage(m.TileWidth, m.TileHeight)
	img.Fill(parseHexColor(m.colors[index]))
	m.typeImgs[index] = img
	return img
}

// parseHexColor parses a color in the form #rrggbb. Returns opaque blue if
// parse fails.
func parseHexColor(s string) color.RGBA {
	var r, g, b uint8 = 0x00, 0x00, 0xff
	if len(s) == 7 && s[0] == '#' {
		var ri, gi, bi uint32
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &ri, &gi, &bi); err == nil {
			r = uint8(ri)
			g = uint8(gi)
			b = uint8(bi)
		}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
