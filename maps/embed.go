// Package maps holds the embedded demo map files.
package maps

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.json
var MapsFS embed.FS

// FS returns the embedded map files.
func FS() fs.FS {
	return MapsFS
}

// Names lists the embedded map files in sorted order.
func Names() []string {
	entries, err := MapsFS.ReadDir(".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
