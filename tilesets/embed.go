// Package tilesets stores the builtin tileset specs and collide scripts.
// Files on disk under tilesets/ override the embedded copies so rules can
// be edited while a game is running.
package tilesets

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed *.yaml
var TilesetsFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Load returns a tileset spec by name, preferring the on-disk copy.
func Load(name string) ([]byte, error) {
	clean := cleanSpecPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return TilesetsFS.ReadFile(clean)
}

// LoadScript returns a collide script by name, preferring the on-disk copy.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

// ModTime reports the on-disk override's modification time, if one exists.
func ModTime(name string) (time.Time, bool) {
	clean := cleanSpecPath(name)
	info, err := os.Stat(diskPath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanSpecPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "tilesets/") {
		return strings.TrimPrefix(s, "tilesets/")
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "tilesets/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "tilesets/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return fmt.Sprintf("scripts/%s", s)
}

func diskPath(clean string) string {
	return filepath.Join("tilesets", filepath.FromSlash(clean))
}
