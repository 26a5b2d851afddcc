// mapcheck loads a map and a tileset, prints the resulting collision
// table, and warns about cells referencing unconfigured tile types or
// scripts that fail to load.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"tilekit/maps"
	"tilekit/tilemap"
	"tilekit/tilesets"
)

func main() {
	levelName := flag.String("level", "demo", "map name in maps/ (basename, .json optional), or a path to a map file")
	tilesetName := flag.String("tileset", "cave.yaml", "tileset spec in tilesets/")
	quiet := flag.Bool("q", false, "only print warnings")
	flag.Parse()

	m, err := loadMap(*levelName)
	if err != nil {
		log.Fatalf("load map %s: %v", *levelName, err)
	}

	spec, err := tilemap.LoadTileset(*tilesetName)
	if err != nil {
		log.Fatalf("load tileset %s: %v", *tilesetName, err)
	}
	m.ApplyTileset(spec)

	if !*quiet {
		printTable(m)
	}

	warnings := 0
	warnings += warnUnconfigured(m)
	warnings += warnScripts(m)

	if warnings > 0 {
		fmt.Printf("%d warning(s)\n", warnings)
	} else if !*quiet {
		fmt.Println("ok")
	}
}

func loadMap(name string) (*tilemap.Tilemap, error) {
	if strings.ContainsAny(name, "/\\") {
		return tilemap.Load(name)
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return tilemap.LoadFS(maps.FS(), name)
}

func printTable(m *tilemap.Tilemap) {
	fmt.Printf("map %q: %dx%d tiles of %dx%d px, %d layer(s)\n",
		m.Name, m.Width, m.Height, m.TileWidth, m.TileHeight, len(m.Layers))
	fmt.Println("index  name        mask                 L R U D  sepX sepY  mass  script")

	for _, t := range m.TileTypes() {
		name := t.Name
		if name == "" {
			name = "-"
		}
		script := m.ScriptFor(t.Index)
		if script == "" {
			script = "-"
		}
		fmt.Printf("%-6d %-11s %-14s (%3d)  %s %s %s %s  %-4v %-4v  %-5.3g %s\n",
			t.Index, name, t.AllowCollisions, uint32(t.AllowCollisions),
			mark(t.CollideLeft), mark(t.CollideRight), mark(t.CollideUp), mark(t.CollideDown),
			t.SeparateX, t.SeparateY, t.Mass, script)
	}
}

func mark(b bool) string {
	if b {
		return "x"
	}
	return "."
}

// warnUnconfigured reports every tile index used by a layer that has no
// registered tile type. Cells holding such indices never block anything.
func warnUnconfigured(m *tilemap.Tilemap) int {
	used := make(map[int]bool)
	for _, layer := range m.Layers {
		for _, v := range layer.Data {
			if v != 0 {
				used[v] = true
			}
		}
	}

	var missing []int
	for index := range used {
		if m.TileType(index) == nil {
			missing = append(missing, index)
		}
	}
	sort.Ints(missing)

	for _, index := range missing {
		fmt.Printf("warning: tile index %d is placed on a layer but has no configured type\n", index)
	}
	return len(missing)
}

func warnScripts(m *tilemap.Tilemap) int {
	count := 0
	for _, t := range m.TileTypes() {
		script := m.ScriptFor(t.Index)
		if script == "" {
			continue
		}
		if _, err := tilesets.LoadScript(script); err != nil {
			fmt.Printf("warning: tile index %d names script %s: %v\n", t.Index, script, err)
			count++
		}
	}
	return count
}
