package tilemap

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"

	"tilekit/collide"
)

// DefaultTileSize is used when a map file does not declare tile dimensions.
const DefaultTileSize = 32

// Tilemap is a layered grid map stored as JSON plus the tile-type table the
// collision resolver consults. Cell value 0 means empty; any other value
// indexes the type table. All coordinates are y-down screen space, so a
// cp.BB here carries B as the top edge and T as the bottom edge.
type Tilemap struct {
	Name   string
	Width  int
	Height int

	TileWidth  int
	TileHeight int

	// player spawn in tile coordinates
	SpawnX int
	SpawnY int

	// Layers are drawn in order, 0 first (bottom).
	Layers []*Layer

	types   map[int]*Tile
	scripts map[int]string
	colors  map[int]string

	// typeImgs caches the flat color image per tile index for Draw.
	typeImgs map[int]*ebiten.Image
}

// Layer is one flat row-major grid of tile indices.
type Layer struct {
	Name    string
	Data    []int
	Visible bool
}

type mapFile struct {
	Name       string      `json:"name"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	TileWidth  int         `json:"tile_width,omitempty"`
	TileHeight int         `json:"tile_height,omitempty"`
	SpawnX     int         `json:"spawn_x,omitempty"`
	SpawnY     int         `json:"spawn_y,omitempty"`
	Layers     []layerFile `json:"layers,omitempty"`
}

type layerFile struct {
	Name    string `json:"name"`
	Data    []int  `json:"data"`
	Visible *bool  `json:"visible,omitempty"`
}

// New returns an empty map with the given dimensions. Inputs are trusted;
// the JSON loader is the validated path.
func New(name string, width, height, tileWidth, tileHeight int) *Tilemap {
	return &Tilemap{
		Name:       name,
		Width:      width,
		Height:     height,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
	}
}

// Load reads a map from a JSON file at path.
func Load(path string) (*Tilemap, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(b)
}

// LoadFS reads a map JSON from an fs.FS (e.g. embedded maps).
func LoadFS(fsys fs.FS, name string) (*Tilemap, error) {
	clean := strings.TrimPrefix(filepath.ToSlash(name), "maps/")
	b, err := fs.ReadFile(fsys, clean)
	if err != nil {
		return nil, err
	}
	return decode(b)
}

func decode(b []byte) (*Tilemap, error) {
	var mf mapFile
	if err := json.Unmarshal(b, &mf); err != nil {
		return nil, err
	}

	if mf.Width <= 0 || mf.Height <= 0 {
		return nil, fmt.Errorf("invalid map dimensions: %dx%d", mf.Width, mf.Height)
	}

	tw := mf.TileWidth
	th := mf.TileHeight
	if tw <= 0 {
		tw = DefaultTileSize
	}
	if th <= 0 {
		th = DefaultTileSize
	}

	m := New(mf.Name, mf.Width, mf.Height, tw, th)
	m.SpawnX = mf.SpawnX
	m.SpawnY = mf.SpawnY

	for i, lf := range mf.Layers {
		if len(lf.Data) != mf.Width*mf.Height {
			return nil, fmt.Errorf("layer %d %q: expected %d cells, got %d", i, lf.Name, mf.Width*mf.Height, len(lf.Data))
		}
		visible := true
		if lf.Visible != nil {
			visible = *lf.Visible
		}
		name := lf.Name
		if name == "" {
			name = fmt.Sprintf("layer_%d", i)
		}
		m.Layers = append(m.Layers, &Layer{Name: name, Data: lf.Data, Visible: visible})
	}

	return m, nil
}

// AddLayer appends a layer. The data slice is kept, not copied.
func (m *Tilemap) AddLayer(name string, data []int, visible bool) (*Layer, error) {
	if len(data) != m.Width*m.Height {
		return nil, fmt.Errorf("layer %q: expected %d cells, got %d", name, m.Width*m.Height, len(data))
	}
	l := &Layer{Name: name, Data: data, Visible: visible}
	m.Layers = append(m.Layers, l)
	return l, nil
}

// SetCollision configures collision for one tile index, creating its Tile on
// first use. The returned Tile is the live table entry.
func (m *Tilemap) SetCollision(index int, flags collide.Flags, resetFirst, separateX, separateY bool) *Tile {
	t := m.ensureType(index)
	t.SetCollision(flags, resetFirst, separateX, separateY)
	return t
}

// SetCollisionBetween applies SetCollision to every index from start to stop
// inclusive. Nothing happens when stop < start.
func (m *Tilemap) SetCollisionBetween(start, stop int, flags collide.Flags, resetFirst, separateX, separateY bool) []*Tile {
	if stop < start {
		return nil
	}
	tiles := make([]*Tile, 0, stop-start+1)
	for i := start; i <= stop; i++ {
		tiles = append(tiles, m.SetCollision(i, flags, resetFirst, separateX, separateY))
	}
	return tiles
}

// SetCollisionByExclusion applies SetCollision to every registered tile type
// whose index is not listed in except. Unregistered indices are untouched.
func (m *Tilemap) SetCollisionByExclusion(except []int, flags collide.Flags, resetFirst, separateX, separateY bool) {
	skip := make(map[int]bool, len(except))
	for _, i := range except {
		skip[i] = true
	}
	for i, t := range m.types {
		if skip[i] {
			continue
		}
		t.SetCollision(flags, resetFirst, separateX, separateY)
	}
}

// ResetCollision clears collision on one tile index. A missing index is a
// no-op.
func (m *Tilemap) ResetCollision(index int) {
	if t, ok := m.types[index]; ok {
		t.ResetCollision()
	}
}

// Destroy tears down the tile-type table. Every Tile is destroyed so stale
// references held elsewhere no longer reach the map.
func (m *Tilemap) Destroy() {
	for _, t := range m.types {
		t.Destroy()
	}
	m.types = nil
	m.scripts = nil
	m.colors = nil
	m.typeImgs = nil
}

func (m *Tilemap) ensureType(index int) *Tile {
	if m.types == nil {
		m.types = make(map[int]*Tile)
	}
	t, ok := m.types[index]
	if !ok {
		t = NewTile(m.TileWidth, m.TileHeight, index)
		t.tilemap = m
		m.types[index] = t
	}
	return t
}

// TileType returns the registered Tile for index, or nil.
func (m *Tilemap) TileType(index int) *Tile {
	return m.types[index]
}

// TileTypes returns every registered Tile ordered by index.
func (m *Tilemap) TileTypes() []*Tile {
	indices := make([]int, 0, len(m.types))
	for i := range m.types {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	tiles := make([]*Tile, 0, len(indices))
	for _, i := range indices {
		tiles = append(tiles, m.types[i])
	}
	return tiles
}

// ScriptFor returns the collide script name configured for a tile index, or
// "" when the type has none.
func (m *Tilemap) ScriptFor(index int) string {
	return m.scripts[index]
}

// TypeColor returns the display color hex string for a tile index, or "".
func (m *Tilemap) TypeColor(index int) string {
	return m.colors[index]
}

// TileIndexAt returns the cell value at x,y on one layer (0 when out of
// bounds or the layer does not exist).
func (m *Tilemap) TileIndexAt(layer, x, y int) int {
	if layer < 0 || layer >= len(m.Layers) {
		return 0
	}
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0
	}
	data := m.Layers[layer].Data
	idx := y*m.Width + x
	if idx >= len(data) {
		return 0
	}
	return data[idx]
}

// TileAt returns the tile type placed at x,y on one layer, or nil for empty
// cells and unregistered indices.
func (m *Tilemap) TileAt(layer, x, y int) *Tile {
	index := m.TileIndexAt(layer, x, y)
	if index == 0 {
		return nil
	}
	return m.types[index]
}

// FirstIndexAt returns the first non-zero cell value at x,y across layers in
// draw order (0 if every layer is empty there).
func (m *Tilemap) FirstIndexAt(x, y int) int {
	for layer := range m.Layers {
		if v := m.TileIndexAt(layer, x, y); v != 0 {
			return v
		}
	}
	return 0
}

// Bounds returns the pixel extent of the map.
func (m *Tilemap) Bounds() cp.BB {
	return cp.BB{
		L: 0,
		B: 0,
		R: float64(m.Width * m.TileWidth),
		T: float64(m.Height * m.TileHeight),
	}
}

// CellBounds returns the pixel rect of one cell.
func (m *Tilemap) CellBounds(x, y int) cp.BB {
	return cp.BB{
		L: float64(x * m.TileWidth),
		B: float64(y * m.TileHeight),
		R: float64((x + 1) * m.TileWidth),
		T: float64((y + 1) * m.TileHeight),
	}
}

// Cell is one occupied map cell returned by CellsIn. Tile is nil when the
// cell's index has no registered type.
type Cell struct {
	X, Y   int
	Index  int
	Tile   *Tile
	Bounds cp.BB
}

// CellsIn returns every occupied cell whose rect intersects bb, in row-major
// order. Touching edges count as intersecting; the resolver culls zero-depth
// contacts itself.
func (m *Tilemap) CellsIn(bb cp.BB) []Cell {
	if m.Width <= 0 || m.Height <= 0 || m.TileWidth <= 0 || m.TileHeight <= 0 {
		return nil
	}

	x0 := int(math.Floor(bb.L / float64(m.TileWidth)))
	y0 := int(math.Floor(bb.B / float64(m.TileHeight)))
	x1 := int(math.Floor(bb.R / float64(m.TileWidth)))
	y1 := int(math.Floor(bb.T / float64(m.TileHeight)))

	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 >= m.Width {
		x1 = m.Width - 1
	}
	if y1 >= m.Height {
		y1 = m.Height - 1
	}

	var out []Cell
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			index := m.FirstIndexAt(x, y)
			if index == 0 {
				continue
			}
			cell := Cell{
				X:      x,
				Y:      y,
				Index:  index,
				Tile:   m.types[index],
				Bounds: m.CellBounds(x, y),
			}
			if cell.Bounds.Intersects(bb) {
				out = append(out, cell)
			}
		}
	}
	return out
}

// SpawnPosition returns the spawn point in world pixels (top-left of the
// spawn cell). An out-of-bounds spawn clamps to (0,0) per axis.
func (m *Tilemap) SpawnPosition() (float64, float64) {
	x := m.SpawnX
	y := m.SpawnY
	if x < 0 || x >= m.Width {
		x = 0
	}
	if y < 0 || y >= m.Height {
		y = 0
	}
	return float64(x * m.TileWidth), float64(y * m.TileHeight)
}
