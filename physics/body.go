// Package physics is an arcade-style AABB resolver driven by the per-face
// collision flags on tilemap tile types.
package physics

import (
	"github.com/jakecoffman/cp"

	"tilekit/collide"
)

// Body is an axis-aligned box moved by the world. Position is the top-left
// corner in y-down pixel space and Velocity is in pixels per second.
type Body struct {
	Position cp.Vector
	Velocity cp.Vector

	Width  float64
	Height float64

	// Mass weights body-vs-body separation. Zero is treated as 1.
	Mass float64

	// Elasticity scales velocity reflection when an axis is blocked.
	// Zero kills the velocity component outright.
	Elasticity float64

	// MaxVelocity caps speed per axis. A zero component means unbounded.
	MaxVelocity cp.Vector

	// Immovable bodies ignore gravity and never yield during separation.
	Immovable bool

	// Touching holds the body faces pressed against something this step;
	// WasTouching is last step's value. Sensor overlaps do not count,
	// only contacts that actually blocked.
	Touching    collide.Flags
	WasTouching collide.Flags

	// UserData is free for callers; the world never touches it.
	UserData any

	prev cp.Vector
}

// NewBody returns a body with mass 1 at the given top-left position.
func NewBody(x, y, width, height float64) *Body {
	return &Body{
		Position: cp.Vector{X: x, Y: y},
		Width:    width,
		Height:   height,
		Mass:     1,
		prev:     cp.Vector{X: x, Y: y},
	}
}

// Bounds returns the body's pixel rect. B is the top edge and T the bottom
// edge, matching the y-down convention used by tilemap.
func (b *Body) Bounds() cp.BB {
	return cp.BB{
		L: b.Position.X,
		B: b.Position.Y,
		R: b.Position.X + b.Width,
		T: b.Position.Y + b.Height,
	}
}

// OnGround reports whether the body's bottom face pressed against something
// this step.
func (b *Body) OnGround() bool {
	return b.Touching.Has(collide.Down)
}

// MoveTo teleports the body, resetting its step delta so the next
// separation pass does not see the jump as movement.
func (b *Body) MoveTo(x, y float64) {
	b.Position = cp.Vector{X: x, Y: y}
	b.prev = b.Position
}

func (b *Body) deltaX() float64 { return b.Position.X - b.prev.X }
func (b *Body) deltaY() float64 { return b.Position.Y - b.prev.Y }

func (b *Body) mass() float64 {
	if b.Mass <= 0 {
		return 1
	}
	return b.Mass
}
