package physics

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"tilekit/collide"
)

// DrawDebug renders body rects plus a tick on each face currently touching.
func (w *World) DrawDebug(screen *ebiten.Image, camX, camY, zoom float64) {
	if screen == nil {
		return
	}
	if zoom <= 0 {
		zoom = 1
	}

	outline := color.RGBA{R: 0x00, G: 0xc8, B: 0xff, A: 0xc8}
	tick := color.RGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}

	const tickLen = 6

	for _, b := range w.bodies {
		x := float32((b.Position.X - camX) * zoom)
		y := float32((b.Position.Y - camY) * zoom)
		bw := float32(b.Width * zoom)
		bh := float32(b.Height * zoom)

		vector.StrokeRect(screen, x, y, bw, bh, 1.0, outline, false)

		cx := x + bw/2
		cy := y + bh/2
		if b.Touching.Has(collide.Left) {
			vector.StrokeLine(screen, x, cy, x+tickLen, cy, 2.0, tick, false)
		}
		if b.Touching.Has(collide.Right) {
			vector.StrokeLine(screen, x+bw, cy, x+bw-tickLen, cy, 2.0, tick, false)
		}
		if b.Touching.Has(collide.Up) {
			vector.StrokeLine(screen, cx, y, cx, y+tickLen, 2.0, tick, false)
		}
		if b.Touching.Has(collide.Down) {
			vector.StrokeLine(screen, cx, y+bh, cx, y+bh-tickLen, 2.0, tick, false)
		}
	}
}
