package tilemap

import (
	"testing"

	"tilekit/collide"
)

func TestLoadTilesetBuiltin(t *testing.T) {
	spec, err := LoadTileset("cave.yaml")
	if err != nil {
		t.Fatalf("LoadTileset: %v", err)
	}
	if spec.Name != "cave" {
		t.Fatalf("expected tileset name cave, got %q", spec.Name)
	}
	if len(spec.Types) == 0 {
		t.Fatalf("expected tile types")
	}

	byIndex := make(map[int]TileTypeSpec)
	for _, ts := range spec.Types {
		byIndex[ts.Index] = ts
	}

	rock, ok := byIndex[1]
	if !ok || rock.Collision != collide.Any {
		t.Fatalf("expected rock to be fully solid, got %+v", rock)
	}

	spikes, ok := byIndex[3]
	if !ok {
		t.Fatalf("expected spikes at index 3")
	}
	if spikes.SeparateX == nil || *spikes.SeparateX || spikes.SeparateY == nil || *spikes.SeparateY {
		t.Fatalf("expected spikes to be a sensor, got %+v", spikes)
	}
	if spikes.Script != "spikes.tengo" {
		t.Fatalf("expected spikes script, got %q", spikes.Script)
	}
}

func TestLoadTilesetMissing(t *testing.T) {
	if _, err := LoadTileset("no_such.yaml"); err == nil {
		t.Fatalf("expected error for missing tileset")
	}
}

func TestApplyTilesetDefaults(t *testing.T) {
	m := New("t", 4, 4, 32, 32)
	f := false
	mass := 2.5

	m.ApplyTileset(&TilesetSpec{
		Name: "test",
		Types: []TileTypeSpec{
			{Index: 1, Name: "solid", Collision: collide.Any, Color: "#112233"},
			{Index: 2, Name: "hazard", Collision: collide.Up, SeparateX: &f, SeparateY: &f, Mass: &mass, Script: "x.tengo"},
		},
	})

	solid := m.TileType(1)
	if solid == nil || solid.Name != "solid" {
		t.Fatalf("expected solid type registered, got %v", solid)
	}
	if !solid.SeparateX || !solid.SeparateY || solid.Mass != 1 {
		t.Fatalf("expected spec defaults, got sep=(%v,%v) mass=%v", solid.SeparateX, solid.SeparateY, solid.Mass)
	}
	if m.TypeColor(1) != "#112233" {
		t.Fatalf("expected color recorded, got %q", m.TypeColor(1))
	}

	hazard := m.TileType(2)
	if hazard.SeparateX || hazard.SeparateY || hazard.Mass != 2.5 {
		t.Fatalf("expected overrides applied, got sep=(%v,%v) mass=%v", hazard.SeparateX, hazard.SeparateY, hazard.Mass)
	}
	if m.ScriptFor(2) != "x.tengo" {
		t.Fatalf("expected script recorded, got %q", m.ScriptFor(2))
	}
}

func TestApplyTilesetHotReloadKeepsTiles(t *testing.T) {
	m := New("t", 4, 4, 32, 32)

	m.ApplyTileset(&TilesetSpec{Types: []TileTypeSpec{
		{Index: 1, Collision: collide.Any},
		{Index: 2, Collision: collide.Up, Script: "x.tengo"},
	}})
	first := m.TileType(1)
	dropped := m.TileType(2)

	// index 2 disappears from the new spec, index 1 changes shape
	m.ApplyTileset(&TilesetSpec{Types: []TileTypeSpec{
		{Index: 1, Collision: collide.Wall},
	}})

	if m.TileType(1) != first {
		t.Fatalf("expected tile instance kept across reload")
	}
	if first.AllowCollisions != collide.Wall || first.CollideUp {
		t.Fatalf("expected reset-then-apply semantics, got %s", first.AllowCollisions)
	}

	// the dropped type stays registered but loses its collision and script
	if m.TileType(2) != dropped {
		t.Fatalf("expected dropped tile instance kept")
	}
	if dropped.Collides() {
		t.Fatalf("expected dropped type collision cleared, got %s", dropped.AllowCollisions)
	}
	if m.ScriptFor(2) != "" {
		t.Fatalf("expected dropped type script cleared")
	}
}

func TestTypeSpecSnapshot(t *testing.T) {
	m := New("t", 4, 4, 32, 32)
	m.ApplyTileset(&TilesetSpec{Types: []TileTypeSpec{
		{Index: 1, Name: "solid", Collision: collide.Any},
	}})

	spec, ok := m.TypeSpec(1)
	if !ok {
		t.Fatalf("expected snapshot for registered type")
	}
	if spec.Index != 1 || spec.Name != "solid" || spec.Collision != collide.Any {
		t.Fatalf("unexpected snapshot %+v", spec)
	}
	// defaults are elided
	if spec.SeparateX != nil || spec.SeparateY != nil || spec.Mass != nil {
		t.Fatalf("expected default fields elided, got %+v", spec)
	}

	if _, ok := m.TypeSpec(9); ok {
		t.Fatalf("expected no snapshot for unregistered type")
	}

	// non-defaults survive the round trip
	f := false
	mass := 3.0
	m.ApplyTileset(&TilesetSpec{Types: []TileTypeSpec{
		{Index: 1, Collision: collide.Up, SeparateY: &f, Mass: &mass},
	}})
	spec, _ = m.TypeSpec(1)
	if spec.SeparateY == nil || *spec.SeparateY {
		t.Fatalf("expected separate_y=false kept, got %+v", spec)
	}
	if spec.Mass == nil || *spec.Mass != 3 {
		t.Fatalf("expected mass kept, got %+v", spec)
	}
}
