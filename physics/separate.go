package physics

import (
	"math"

	"tilekit/collide"
)

// Separate resolves overlap between two bodies, X axis first, then Y with
// the updated positions. It reports whether any separation happened. Two
// movable bodies each yield half the overlap and exchange momentum weighted
// by mass; an immovable body yields nothing.
func Separate(a, b *Body) bool {
	x := separateBodyX(a, b)
	y := separateBodyY(a, b)
	return x || y
}

func separateBodyX(a, b *Body) bool {
	if a.Immovable && b.Immovable {
		return false
	}
	if !bodiesOverlap(a, b) {
		return false
	}

	adx := a.deltaX()
	bdx := b.deltaX()
	if adx == bdx {
		// neither moved relative to the other, leave them embedded
		return false
	}

	maxOverlap := math.Abs(adx) + math.Abs(bdx) + OverlapBias

	var overlap float64
	var aFace, bFace collide.Flags
	if adx > bdx {
		overlap = a.Position.X + a.Width - b.Position.X
		aFace, bFace = collide.Right, collide.Left
	} else {
		overlap = -(b.Position.X + b.Width - a.Position.X)
		aFace, bFace = collide.Left, collide.Right
	}
	if overlap == 0 || math.Abs(overlap) > maxOverlap {
		return false
	}

	a.Touching |= aFace
	b.Touching |= bFace

	av := a.Velocity.X
	bv := b.Velocity.X

	switch {
	case a.Immovable:
		b.Position.X += overlap
		b.Velocity.X = av - bv*b.Elasticity
	case b.Immovable:
		a.Position.X -= overlap
		a.Velocity.X = bv - av*a.Elasticity
	default:
		a.Position.X -= overlap / 2
		b.Position.X += overlap / 2
		na := math.Sqrt(bv*bv*b.mass()/a.mass()) * sign(bv)
		nb := math.Sqrt(av*av*a.mass()/b.mass()) * sign(av)
		avg := (na + nb) / 2
		na -= avg
		nb -= avg
		a.Velocity.X = avg + na*a.Elasticity
		b.Velocity.X = avg + nb*b.Elasticity
	}
	return true
}

func separateBodyY(a, b *Body) bool {
	if a.Immovable && b.Immovable {
		return false
	}
	if !bodiesOverlap(a, b) {
		return false
	}

	ady := a.deltaY()
	bdy := b.deltaY()
	if ady == bdy {
		return false
	}

	maxOverlap := math.Abs(ady) + math.Abs(bdy) + OverlapBias

	var overlap float64
	var aFace, bFace collide.Flags
	if ady > bdy {
		overlap = a.Position.Y + a.Height - b.Position.Y
		aFace, bFace = collide.Down, collide.Up
	} else {
		overlap = -(b.Position.Y + b.Height - a.Position.Y)
		aFace, bFace = collide.Up, collide.Down
	}
	if overlap == 0 || math.Abs(overlap) > maxOverlap {
		return false
	}

	a.Touching |= aFace
	b.Touching |= bFace

	av := a.Velocity.Y
	bv := b.Velocity.Y

	switch {
	case a.Immovable:
		b.Position.Y += overlap
		b.Velocity.Y = av - bv*b.Elasticity
	case b.Immovable:
		a.Position.Y -= overlap
		a.Velocity.Y = bv - av*a.Elasticity
	default:
		a.Position.Y -= overlap / 2
		b.Position.Y += overlap / 2
		na := math.Sqrt(bv*bv*b.mass()/a.mass()) * sign(bv)
		nb := math.Sqrt(av*av*a.mass()/b.mass()) * sign(av)
		avg := (na + nb) / 2
		na -= avg
		nb -= avg
		a.Velocity.Y = avg + na*a.Elasticity
		b.Velocity.Y = avg + nb*b.Elasticity
	}
	return true
}

func bodiesOverlap(a, b *Body) bool {
	ab := a.Bounds()
	bb := b.Bounds()
	return math.Min(ab.R, bb.R) > math.Max(ab.L, bb.L) &&
		math.Min(ab.T, bb.T) > math.Max(ab.B, bb.B)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
