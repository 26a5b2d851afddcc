package physics

import (
	"math"
	"testing"

	"tilekit/collide"
)

// moved simulates one frame of movement for separation tests: MoveTo pins
// the step origin, then the position is advanced directly.
func moved(b *Body, dx, dy float64) *Body {
	b.MoveTo(b.Position.X, b.Position.Y)
	b.Position.X += dx
	b.Position.Y += dy
	return b
}

func TestSeparateFallerOntoImmovable(t *testing.T) {
	ground := NewBody(0, 100, 200, 32)
	ground.Immovable = true

	faller := NewBody(50, 74, 24, 24)
	faller.Velocity.Y = 360
	moved(faller, 0, 6) // bottom ends 4 deep into the ground

	if !Separate(faller, ground) {
		t.Fatalf("expected separation")
	}

	if faller.Position.Y != 100-24 {
		t.Fatalf("expected faller snapped to ground top, got y=%v", faller.Position.Y)
	}
	if ground.Position.Y != 100 {
		t.Fatalf("immovable body must not move, got y=%v", ground.Position.Y)
	}
	if faller.Velocity.Y != 0 {
		t.Fatalf("expected vertical velocity absorbed, got %v", faller.Velocity.Y)
	}
	if !faller.Touching.Has(collide.Down) || !ground.Touching.Has(collide.Up) {
		t.Fatalf("expected down/up touching pair, got %s / %s", faller.Touching, ground.Touching)
	}
}

func TestSeparateTwoMovableSplitOverlap(t *testing.T) {
	a := NewBody(100, 50, 24, 24)
	a.Velocity.X = 240
	moved(a, 4, 0) // a ends 8 into b

	b := NewBody(120, 50, 24, 24)
	moved(b, 0, 0)

	if !Separate(a, b) {
		t.Fatalf("expected separation")
	}

	if a.Position.X != 100 || b.Position.X != 124 {
		t.Fatalf("expected overlap split evenly, got a.x=%v b.x=%v", a.Position.X, b.Position.X)
	}
	if !a.Touching.Has(collide.Right) || !b.Touching.Has(collide.Left) {
		t.Fatalf("expected right/left touching pair, got %s / %s", a.Touching, b.Touching)
	}

	// with zero elasticity both end at the mass-weighted average velocity
	if a.Velocity.X != b.Velocity.X {
		t.Fatalf("expected matched velocities, got %v / %v", a.Velocity.X, b.Velocity.X)
	}
}

func TestSeparateMassBiasesExchange(t *testing.T) {
	light := NewBody(100, 50, 24, 24)
	light.Velocity.X = 240
	moved(light, 4, 0)

	heavy := NewBody(120, 50, 24, 24)
	heavy.Mass = 4
	moved(heavy, 0, 0)

	if !Separate(light, heavy) {
		t.Fatalf("expected separation")
	}

	// momentum transferred into the heavy body scales down by the mass
	// ratio: sqrt(240^2 * 1/4) = 120, averaged with the light side's 0
	if math.Abs(heavy.Velocity.X-60) > 1e-9 {
		t.Fatalf("expected heavy body pushed at 60, got %v", heavy.Velocity.X)
	}
}

func TestSeparateBothImmovable(t *testing.T) {
	a := NewBody(100, 50, 24, 24)
	a.Immovable = true
	b := NewBody(110, 50, 24, 24)
	b.Immovable = true

	if Separate(a, b) {
		t.Fatalf("immovable pair must not separate")
	}
	if a.Position.X != 100 || b.Position.X != 110 {
		t.Fatalf("positions must not change")
	}
}

func TestSeparateNoOverlap(t *testing.T) {
	a := NewBody(0, 0, 24, 24)
	moved(a, 4, 0)
	b := NewBody(100, 0, 24, 24)
	moved(b, 0, 0)

	if Separate(a, b) {
		t.Fatalf("expected no separation without overlap")
	}
}

func TestSeparateEmbeddedWithoutMovement(t *testing.T) {
	// overlapping but neither moved this frame: leave them embedded
	a := NewBody(100, 50, 24, 24)
	moved(a, 0, 0)
	b := NewBody(110, 50, 24, 24)
	moved(b, 0, 0)

	if Separate(a, b) {
		t.Fatalf("expected embedded pair left alone")
	}
}
