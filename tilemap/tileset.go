package tilemap

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"tilekit/collide"
	"tilekit/tilesets"
)

// TilesetSpec declares collision rules for a family of tile types. The
// builtin specs live in the tilesets package as YAML.
type TilesetSpec struct {
	Name       string         `yaml:"name"`
	TileWidth  int            `yaml:"tile_width,omitempty"`
	TileHeight int            `yaml:"tile_height,omitempty"`
	Types      []TileTypeSpec `yaml:"types"`
}

// TileTypeSpec configures one tile index. Separation and mass fall back to
// the Tile defaults (true, 1) when omitted.
type TileTypeSpec struct {
	Index     int           `yaml:"index"`
	Name      string        `yaml:"name,omitempty"`
	Collision collide.Flags `yaml:"collision,omitempty"`
	SeparateX *bool         `yaml:"separate_x,omitempty"`
	SeparateY *bool         `yaml:"separate_y,omitempty"`
	Mass      *float64      `yaml:"mass,omitempty"`
	Color     string        `yaml:"color,omitempty"`
	Script    string        `yaml:"script,omitempty"`
}

// LoadTileset reads a tileset spec by name, preferring a disk override under
// tilesets/ over the embedded copy.
func LoadTileset(name string) (*TilesetSpec, error) {
	data, err := tilesets.Load(name)
	if err != nil {
		return nil, fmt.Errorf("tilemap: load tileset %s: %w", name, err)
	}
	var spec TilesetSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("tilemap: unmarshal tileset %s: %w", name, err)
	}
	return &spec, nil
}

// ApplyTileset reconfigures the tile-type table from a spec. Types that are
// registered but absent from the spec lose their collision yet stay alive,
// so pointers held by a running resolver survive a hot reload.
func (m *Tilemap) ApplyTileset(spec *TilesetSpec) {
	for _, t := range m.types {
		t.ResetCollision()
	}
	m.scripts = make(map[int]string)
	m.colors = make(map[int]string)
	m.typeImgs = nil

	for _, ts := range spec.Types {
		sx := true
		if ts.SeparateX != nil {
			sx = *ts.SeparateX
		}
		sy := true
		if ts.SeparateY != nil {
			sy = *ts.SeparateY
		}

		t := m.SetCollision(ts.Index, ts.Collision, true, sx, sy)
		t.Name = ts.Name
		t.Mass = 1
		if ts.Mass != nil {
			t.Mass = *ts.Mass
		}
		if ts.Color != "" {
			m.colors[ts.Index] = ts.Color
		}
		if ts.Script != "" {
			m.scripts[ts.Index] = ts.Script
		}
	}
}

// TypeSpec snapshots the live configuration of one tile index as a spec
// entry, e.g. for copying back into a tileset file. Defaults are elided the
// same way the builtin files write them.
func (m *Tilemap) TypeSpec(index int) (TileTypeSpec, bool) {
	t := m.types[index]
	if t == nil {
		return TileTypeSpec{}, false
	}
	spec := TileTypeSpec{
		Index:     index,
		Name:      t.Name,
		Collision: t.AllowCollisions,
		Color:     m.colors[index],
		Script:    m.scripts[index],
	}
	if !t.SeparateX {
		f := false
		spec.SeparateX = &f
	}
	if !t.SeparateY {
		f := false
		spec.SeparateY = &f
	}
	if t.Mass != 1 {
		mass := t.Mass
		spec.Mass = &mass
	}
	return spec, true
}
