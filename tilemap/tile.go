// Package tilemap provides grid maps whose cells reference shared tile
// types. Collision behavior lives on the type: each Tile records a
// directional mask plus a cached per-face decomposition that the physics
// resolver reads every step.
package tilemap

import (
	"fmt"

	"tilekit/collide"
)

// Tile is the collision metadata for one tile type. Every map cell holding
// the same index shares the one Tile registered for it, so flipping a flag
// here changes every placement at once.
type Tile struct {
	// Index is the position of this type in the owning map's type table.
	// Set at construction and never changed here.
	Index int

	// Width and Height are the pixel dimensions of a placement.
	Width  int
	Height int

	// Mass biases body-vs-body style separation math in the resolver.
	Mass float64

	// Name is a diagnostic label. Engine logic never reads it.
	Name string

	// AllowCollisions is the authoritative mask. The four booleans below
	// are its cached decomposition; only SetCollision and ResetCollision
	// may write them.
	AllowCollisions collide.Flags

	CollideLeft  bool
	CollideRight bool
	CollideUp    bool
	CollideDown  bool

	// SeparateX and SeparateY toggle positional correction per axis.
	// When false the tile acts as a sensor on that axis.
	SeparateX bool
	SeparateY bool

	tilemap *Tilemap
}

// NewTile returns a tile type with no collision configured. Mass starts at 1
// and both separation axes start enabled. Inputs are trusted as-is.
func NewTile(width, height, index int) *Tile {
	return &Tile{
		Index:     index,
		Width:     width,
		Height:    height,
		Mass:      1,
		SeparateX: true,
		SeparateY: true,
	}
}

// SetCollision replaces the collision mask and folds it into the face
// booleans. With resetFirst the previous state is wiped and the result is
// exactly the new mask's decomposition. Without it the mask is still
// overwritten but the booleans only ever gain faces, so earlier
// configuration shines through. separateX and separateY are assigned either
// way. Unrecognized mask bits are kept in AllowCollisions and decode to
// nothing.
func (t *Tile) SetCollision(collision collide.Flags, resetFirst, separateX, separateY bool) {
	if resetFirst {
		t.ResetCollision()
	}

	t.SeparateX = separateX
	t.SeparateY = separateY

	t.AllowCollisions = collision

	if collision.Has(collide.Any) {
		t.CollideLeft = true
		t.CollideRight = true
		t.CollideUp = true
		t.CollideDown = true
		return
	}

	t.CollideLeft = t.CollideLeft || collision.Has(collide.Left)
	t.CollideRight = t.CollideRight || collision.Has(collide.Right)
	t.CollideUp = t.CollideUp || collision.Has(collide.Up)
	t.CollideDown = t.CollideDown || collision.Has(collide.Down)
}

// ResetCollision clears the mask and the four face booleans. SeparateX and
// SeparateY keep their current values.
func (t *Tile) ResetCollision() {
	t.AllowCollisions = collide.None
	t.CollideLeft = false
	t.CollideRight = false
	t.CollideUp = false
	t.CollideDown = false
}

// Collides reports whether any collision mask is configured.
func (t *Tile) Collides() bool {
	return t.AllowCollisions != collide.None
}

// Owner returns the map this tile type is registered with, or nil after
// Destroy.
func (t *Tile) Owner() *Tilemap {
	return t.tilemap
}

// Destroy severs the back-reference to the owning map. It touches nothing
// else and may be called any number of times.
func (t *Tile) Destroy() {
	t.tilemap = nil
}

func (t *Tile) String() string {
	return fmt.Sprintf("tile(index=%d allowCollisions=%d width=%d height=%d)",
		t.Index, uint32(t.AllowCollisions), t.Width, t.Height)
}
