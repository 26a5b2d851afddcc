package physics

import (
	"testing"

	"tilekit/collide"
	"tilekit/tilemap"
)

// newTestMap builds a 10x10 map of 32px tiles with a single layer. cells
// maps (x,y) to a tile index; everything else is empty.
func newTestMap(t *testing.T, cells map[[2]int]int) *tilemap.Tilemap {
	t.Helper()
	m := tilemap.New("test", 10, 10, 32, 32)
	data := make([]int, 10*10)
	for pos, index := range cells {
		data[pos[1]*10+pos[0]] = index
	}
	if _, err := m.AddLayer("main", data, true); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	return m
}

func groundRow(y int) map[[2]int]int {
	cells := make(map[[2]int]int)
	for x := 0; x < 10; x++ {
		cells[[2]int{x, y}] = 1
	}
	return cells
}

func stepN(w *World, n int) {
	for i := 0; i < n; i++ {
		w.Step(1.0 / 60.0)
	}
}

func TestStepLandsOnSolidGround(t *testing.T) {
	m := newTestMap(t, groundRow(9))
	m.SetCollision(1, collide.Any, true, true, true)

	w := NewWorld(m)
	b := NewBody(100, 250, 24, 24)
	w.AddBody(b)

	stepN(w, 60)

	// ground row starts at y=288
	if b.Position.Y != 288-24 {
		t.Fatalf("expected body resting at y=%d, got %v", 288-24, b.Position.Y)
	}
	if !b.OnGround() {
		t.Fatalf("expected body grounded, touching=%s", b.Touching)
	}
	if b.Velocity.Y != 0 {
		t.Fatalf("expected vertical velocity killed, got %v", b.Velocity.Y)
	}
}

func TestOneWayPlatform(t *testing.T) {
	cells := map[[2]int]int{
		{3, 5}: 2, {4, 5}: 2, {5, 5}: 2,
	}
	m := newTestMap(t, cells)
	m.SetCollision(2, collide.Up, true, true, true)

	t.Run("blocks_falling", func(t *testing.T) {
		w := NewWorld(m)
		b := NewBody(130, 120, 24, 24)
		w.AddBody(b)

		stepN(w, 60)

		// platform row starts at y=160
		if b.Position.Y != 160-24 {
			t.Fatalf("expected body resting at y=%d, got %v", 160-24, b.Position.Y)
		}
		if !b.OnGround() {
			t.Fatalf("expected body grounded, touching=%s", b.Touching)
		}
	})

	t.Run("passes_rising", func(t *testing.T) {
		w := NewWorld(m)
		w.Gravity.Y = 0
		b := NewBody(130, 170, 24, 24)
		b.Velocity.Y = -240
		w.AddBody(b)

		w.Step(1.0 / 60.0)

		if b.Position.Y >= 170 {
			t.Fatalf("expected body to move up through platform, got y=%v", b.Position.Y)
		}
		if b.Touching != collide.None {
			t.Fatalf("expected no touching flags, got %s", b.Touching)
		}
	})
}

func TestDirectionalFaceBlocksOneWay(t *testing.T) {
	// one tile at x=5 whose left face only is solid; its row is y=4
	cells := map[[2]int]int{{5, 4}: 3}
	m := newTestMap(t, cells)
	m.SetCollision(3, collide.Left, true, true, true)

	t.Run("blocks_moving_right", func(t *testing.T) {
		w := NewWorld(m)
		w.Gravity.Y = 0
		b := NewBody(132, 132, 24, 24)
		b.Velocity.X = 300 // 5 px per step, tile left edge is x=160
		w.AddBody(b)

		w.Step(1.0 / 60.0)

		if b.Position.X != 160-24 {
			t.Fatalf("expected body stopped at x=%d, got %v", 160-24, b.Position.X)
		}
		if !b.Touching.Has(collide.Right) {
			t.Fatalf("expected right face touching, got %s", b.Touching)
		}
		if b.Velocity.X != 0 {
			t.Fatalf("expected horizontal velocity killed, got %v", b.Velocity.X)
		}
	})

	t.Run("passes_moving_left", func(t *testing.T) {
		w := NewWorld(m)
		w.Gravity.Y = 0
		// start overlapping the tile's right half, moving left
		b := NewBody(185, 132, 24, 24)
		b.Velocity.X = -300
		w.AddBody(b)

		w.Step(1.0 / 60.0)

		if b.Position.X != 180 {
			t.Fatalf("expected free movement to x=180, got %v", b.Position.X)
		}
		if b.Touching != collide.None {
			t.Fatalf("expected no touching flags, got %s", b.Touching)
		}
	})
}

func TestSensorTileRecordsContactWithoutSeparation(t *testing.T) {
	cells := map[[2]int]int{{4, 6}: 4}
	m := newTestMap(t, cells)
	// top face configured but both separation axes off
	m.SetCollision(4, collide.Up, true, false, false)

	w := NewWorld(m)
	contacts := 0
	w.OnTileContact(4, func(b *Body, cell tilemap.Cell) {
		contacts++
		if cell.Index != 4 {
			t.Fatalf("expected cell index 4, got %d", cell.Index)
		}
	})

	// sensor cell spans y 192..224
	b := NewBody(132, 170, 24, 24)
	w.AddBody(b)

	stepN(w, 30)

	if contacts == 0 {
		t.Fatalf("expected at least one sensor contact")
	}
	// body falls straight through
	if b.Position.Y <= 224 {
		t.Fatalf("expected body to fall through sensor, got y=%v", b.Position.Y)
	}
}

func TestContactFiresOncePerCellPerStep(t *testing.T) {
	cells := map[[2]int]int{{4, 6}: 4}
	m := newTestMap(t, cells)
	m.SetCollision(4, collide.Any, true, false, false)

	w := NewWorld(m)
	w.Gravity.Y = 0
	contacts := 0
	w.OnTileContact(4, func(*Body, tilemap.Cell) { contacts++ })

	// nudged diagonally into the cell's corner so both axes see the same
	// tile within the tunneling bias
	b := NewBody(106, 170, 24, 24)
	b.Velocity.X = 300
	b.Velocity.Y = 300
	w.AddBody(b)

	w.Step(1.0 / 60.0)

	if contacts != 1 {
		t.Fatalf("expected one contact for one step, got %d", contacts)
	}
}

func TestMapEdgeClamp(t *testing.T) {
	m := newTestMap(t, nil)
	w := NewWorld(m)
	w.Gravity.Y = 0

	b := NewBody(4, 100, 24, 24)
	b.Velocity.X = -600
	w.AddBody(b)

	w.Step(1.0 / 60.0)

	if b.Position.X != 0 {
		t.Fatalf("expected clamp to left edge, got x=%v", b.Position.X)
	}
	if !b.Touching.Has(collide.Left) {
		t.Fatalf("expected left face touching, got %s", b.Touching)
	}
	if b.Velocity.X != 0 {
		t.Fatalf("expected velocity zeroed at edge, got %v", b.Velocity.X)
	}
}

func TestMaxVelocityClampsGravity(t *testing.T) {
	m := newTestMap(t, nil)
	w := NewWorld(m)

	b := NewBody(100, 0, 24, 24)
	b.MaxVelocity.Y = 200
	w.AddBody(b)

	stepN(w, 30)

	if b.Velocity.Y != 200 {
		t.Fatalf("expected fall speed capped at 200, got %v", b.Velocity.Y)
	}
}

func TestImmovableBodyIgnoresGravity(t *testing.T) {
	m := newTestMap(t, nil)
	w := NewWorld(m)

	b := NewBody(100, 100, 24, 24)
	b.Immovable = true
	w.AddBody(b)

	stepN(w, 10)

	if b.Position.Y != 100 || b.Velocity.Y != 0 {
		t.Fatalf("expected immovable body unmoved, got y=%v vy=%v", b.Position.Y, b.Velocity.Y)
	}
}

func TestTouchingRollsIntoWasTouching(t *testing.T) {
	m := newTestMap(t, groundRow(9))
	m.SetCollision(1, collide.Any, true, true, true)

	w := NewWorld(m)
	b := NewBody(100, 288-24, 24, 24)
	w.AddBody(b)

	stepN(w, 2)

	if !b.OnGround() {
		t.Fatalf("expected grounded")
	}
	if !b.WasTouching.Has(collide.Down) {
		t.Fatalf("expected last step's down contact recorded, got %s", b.WasTouching)
	}

	// lift the body off the ground; Touching clears, WasTouching lags one step
	b.MoveTo(100, 100)
	b.Velocity.Y = 0
	w.Step(1.0 / 60.0)

	if b.OnGround() {
		t.Fatalf("expected airborne")
	}
	if !b.WasTouching.Has(collide.Down) {
		t.Fatalf("expected WasTouching to lag one step, got %s", b.WasTouching)
	}
}

func TestRemoveBody(t *testing.T) {
	m := newTestMap(t, nil)
	w := NewWorld(m)

	a := w.AddBody(NewBody(0, 0, 8, 8))
	b := w.AddBody(NewBody(20, 0, 8, 8))

	w.RemoveBody(a)

	if len(w.Bodies()) != 1 || w.Bodies()[0] != b {
		t.Fatalf("expected only the second body to remain")
	}

	// removing an unknown body is a no-op
	w.RemoveBody(a)
	if len(w.Bodies()) != 1 {
		t.Fatalf("expected body list untouched")
	}
}

func TestCollideScriptLaunchesAndEmits(t *testing.T) {
	cells := map[[2]int]int{
		{3, 8}: 5, {4, 8}: 5, {5, 8}: 5,
	}
	m := newTestMap(t, cells)
	m.ApplyTileset(&tilemap.TilesetSpec{
		Name: "test",
		Types: []tilemap.TileTypeSpec{
			{Index: 5, Name: "spring", Collision: collide.Up, Script: "spring.tengo"},
		},
	})

	w := NewWorld(m)
	// spring row starts at y=256
	b := NewBody(130, 220, 24, 24)
	w.AddBody(b)

	launched := false
	var events []TileEvent
	for i := 0; i < 120 && !launched; i++ {
		w.Step(1.0 / 60.0)
		events = append(events, w.DrainEvents()...)
		if b.Velocity.Y == -900 {
			launched = true
		}
	}

	if !launched {
		t.Fatalf("expected spring script to set launch velocity, got vy=%v", b.Velocity.Y)
	}

	found := false
	for _, ev := range events {
		if ev.Name == "boing" {
			found = true
			if ev.Body != b {
				t.Fatalf("expected event body to be the faller")
			}
			if ev.Cell.Index != 5 {
				t.Fatalf("expected event cell index 5, got %d", ev.Cell.Index)
			}
		}
	}
	if !found {
		t.Fatalf("expected a boing event, got %v", events)
	}
}

func TestCollideScriptMissingLogsAndContinues(t *testing.T) {
	cells := map[[2]int]int{{4, 8}: 6}
	m := newTestMap(t, cells)
	m.ApplyTileset(&tilemap.TilesetSpec{
		Name: "test",
		Types: []tilemap.TileTypeSpec{
			{Index: 6, Collision: collide.Up, Script: "does_not_exist.tengo"},
		},
	})

	w := NewWorld(m)
	b := NewBody(130, 230, 24, 24)
	w.AddBody(b)

	// the missing script must not prevent normal separation
	stepN(w, 60)

	if b.Position.Y != 256-24 {
		t.Fatalf("expected body resting on tile, got y=%v", b.Position.Y)
	}
	if len(w.DrainEvents()) != 0 {
		t.Fatalf("expected no events from a missing script")
	}
}
