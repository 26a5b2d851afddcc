package physics

import (
	"math"

	"github.com/jakecoffman/cp"

	"tilekit/collide"
	"tilekit/tilemap"
)

// OverlapBias is the extra overlap allowed beyond an axis' travel before a
// tile contact is rejected as tunneling.
const OverlapBias = 4.0

// DefaultGravity is the downward acceleration NewWorld starts with, in
// pixels per second squared (half a pixel per frame at 60 fps).
const DefaultGravity = 1800.0

// TileEvent is queued when a collide script calls emit. The game loop
// consumes the queue once per frame via DrainEvents.
type TileEvent struct {
	Body *Body
	Cell tilemap.Cell
	Name string
}

// World steps bodies against a tilemap's collision table. It is not safe
// for concurrent use; drive it from the game loop.
type World struct {
	Gravity cp.Vector
	Map     *tilemap.Tilemap

	bodies    []*Body
	callbacks map[int][]func(*Body, tilemap.Cell)
	scripts   map[string]*collideScript
	events    []TileEvent
}

// NewWorld returns a world with default gravity over the given map. The map
// may be nil; bodies then move unobstructed.
func NewWorld(m *tilemap.Tilemap) *World {
	return &World{
		Gravity: cp.Vector{X: 0, Y: DefaultGravity},
		Map:     m,
	}
}

// AddBody registers a body with the world and returns it.
func (w *World) AddBody(b *Body) *Body {
	b.prev = b.Position
	w.bodies = append(w.bodies, b)
	return b
}

// RemoveBody unregisters a body. Unknown bodies are ignored.
func (w *World) RemoveBody(b *Body) {
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

// Bodies returns the live body list in step order.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// OnTileContact registers fn to run once per step for each body that
// contacts a cell holding the given tile index.
func (w *World) OnTileContact(index int, fn func(*Body, tilemap.Cell)) {
	if w.callbacks == nil {
		w.callbacks = make(map[int][]func(*Body, tilemap.Cell))
	}
	w.callbacks[index] = append(w.callbacks[index], fn)
}

// DrainEvents returns the tile events queued since the last call and clears
// the queue.
func (w *World) DrainEvents() []TileEvent {
	ev := w.events
	w.events = nil
	return ev
}

type contact struct {
	cell tilemap.Cell
	face collide.Flags
}

// Step advances every body by dt seconds: integrate velocity, resolve the X
// axis, then the Y axis, clamp to the map, then fire tile contacts.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		w.stepBody(b, dt)
	}
}

func (w *World) stepBody(b *Body, dt float64) {
	b.WasTouching = b.Touching
	b.Touching = collide.None
	b.prev = b.Position

	if b.Immovable {
		return
	}

	b.Velocity = b.Velocity.Add(w.Gravity.Mult(dt))
	clampVelocity(b)

	var contacts []contact
	seen := make(map[[2]int]bool)

	if dx := b.Velocity.X * dt; dx != 0 {
		b.Position.X += dx
		w.separateTileX(b, dx, &contacts, seen)
	}

	if dy := b.Velocity.Y * dt; dy != 0 {
		b.Position.Y += dy
		w.separateTileY(b, dy, &contacts, seen)
	}

	w.clampToMap(b)

	for _, c := range contacts {
		w.fireContact(b, c)
	}
}

// separateTileX resolves horizontal overlap after the body moved dx. Moving
// right blocks on tiles whose left face is solid, moving left on right
// faces. Overlap deeper than the travel plus OverlapBias is ignored.
func (w *World) separateTileX(b *Body, dx float64, contacts *[]contact, seen map[[2]int]bool) {
	if w.Map == nil {
		return
	}
	maxOverlap := math.Abs(dx) + OverlapBias

	for _, cell := range w.Map.CellsIn(b.Bounds()) {
		t := cell.Tile
		if t == nil || !t.Collides() {
			continue
		}
		// vertical ranges must truly overlap, corner touches do not count
		if b.Position.Y+b.Height <= cell.Bounds.B || b.Position.Y >= cell.Bounds.T {
			continue
		}

		if dx > 0 {
			if !t.CollideLeft {
				continue
			}
			overlap := b.Position.X + b.Width - cell.Bounds.L
			if overlap <= 0 || overlap > maxOverlap {
				continue
			}
			if t.SeparateX {
				b.Position.X -= overlap
				b.Velocity.X = -b.Velocity.X * b.Elasticity
				b.Touching |= collide.Right
			}
			addContact(contacts, seen, cell, collide.Right)
		} else {
			if !t.CollideRight {
				continue
			}
			overlap := cell.Bounds.R - b.Position.X
			if overlap <= 0 || overlap > maxOverlap {
				continue
			}
			if t.SeparateX {
				b.Position.X += overlap
				b.Velocity.X = -b.Velocity.X * b.Elasticity
				b.Touching |= collide.Left
			}
			addContact(contacts, seen, cell, collide.Left)
		}
	}
}

// separateTileY resolves vertical overlap after the body moved dy. Falling
// blocks on tiles whose top face is solid, rising on bottom faces.
func (w *World) separateTileY(b *Body, dy float64, contacts *[]contact, seen map[[2]int]bool) {
	if w.Map == nil {
		return
	}
	maxOverlap := math.Abs(dy) + OverlapBias

	for _, cell := range w.Map.CellsIn(b.Bounds()) {
		t := cell.Tile
		if t == nil || !t.Collides() {
			continue
		}
		if b.Position.X+b.Width <= cell.Bounds.L || b.Position.X >= cell.Bounds.R {
			continue
		}

		if dy > 0 {
			if !t.CollideUp {
				continue
			}
			overlap := b.Position.Y + b.Height - cell.Bounds.B
			if overlap <= 0 || overlap > maxOverlap {
				continue
			}
			if t.SeparateY {
				b.Position.Y -= overlap
				b.Velocity.Y = -b.Velocity.Y * b.Elasticity
				b.Touching |= collide.Down
			}
			addContact(contacts, seen, cell, collide.Down)
		} else {
			if !t.CollideDown {
				continue
			}
			overlap := cell.Bounds.T - b.Position.Y
			if overlap <= 0 || overlap > maxOverlap {
				continue
			}
			if t.SeparateY {
				b.Position.Y += overlap
				b.Velocity.Y = -b.Velocity.Y * b.Elasticity
				b.Touching |= collide.Up
			}
			addContact(contacts, seen, cell, collide.Up)
		}
	}
}

func addContact(contacts *[]contact, seen map[[2]int]bool, cell tilemap.Cell, face collide.Flags) {
	key := [2]int{cell.X, cell.Y}
	if seen[key] {
		return
	}
	seen[key] = true
	*contacts = append(*contacts, contact{cell: cell, face: face})
}

func (w *World) clampToMap(b *Body) {
	if w.Map == nil || w.Map.Width <= 0 || w.Map.Height <= 0 {
		return
	}
	bounds := w.Map.Bounds()

	if b.Position.X < bounds.L {
		b.Position.X = bounds.L
		if b.Velocity.X < 0 {
			b.Velocity.X = 0
		}
		b.Touching |= collide.Left
	}
	if b.Position.X+b.Width > bounds.R {
		b.Position.X = bounds.R - b.Width
		if b.Velocity.X > 0 {
			b.Velocity.X = 0
		}
		b.Touching |= collide.Right
	}
	if b.Position.Y < bounds.B {
		b.Position.Y = bounds.B
		if b.Velocity.Y < 0 {
			b.Velocity.Y = 0
		}
		b.Touching |= collide.Up
	}
	if b.Position.Y+b.Height > bounds.T {
		b.Position.Y = bounds.T - b.Height
		if b.Velocity.Y > 0 {
			b.Velocity.Y = 0
		}
		b.Touching |= collide.Down
	}
}

func clampVelocity(b *Body) {
	if b.MaxVelocity.X > 0 {
		if b.Velocity.X > b.MaxVelocity.X {
			b.Velocity.X = b.MaxVelocity.X
		} else if b.Velocity.X < -b.MaxVelocity.X {
			b.Velocity.X = -b.MaxVelocity.X
		}
	}
	if b.MaxVelocity.Y > 0 {
		if b.Velocity.Y > b.MaxVelocity.Y {
			b.Velocity.Y = b.MaxVelocity.Y
		} else if b.Velocity.Y < -b.MaxVelocity.Y {
			b.Velocity.Y = -b.MaxVelocity.Y
		}
	}
}

func (w *World) fireContact(b *Body, c contact) {
	for _, fn := range w.callbacks[c.cell.Index] {
		fn(b, c.cell)
	}
	if w.Map == nil {
		return
	}
	if script := w.Map.ScriptFor(c.cell.Index); script != "" {
		w.runCollideScript(b, c, script)
	}
}
