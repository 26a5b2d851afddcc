// Package collide defines the directional collision flag vocabulary shared
// by tile types and the physics resolver.
package collide

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Flags is a bit field of directional collision capabilities. A set bit
// means the matching face blocks movement into it.
type Flags uint32

const (
	Left Flags = 1 << iota
	Right
	Up
	Down
)

const (
	None    Flags = 0
	Wall          = Left | Right
	Ceiling       = Up | Down
	Any           = Left | Right | Up | Down
)

// Has reports whether every bit of bits is set in f. Note Has(None) is
// vacuously true; compare against None directly to test for emptiness.
func (f Flags) Has(bits Flags) bool {
	return f&bits == bits
}

// String renders the flags as "left|down" style names. Bits outside the
// known vocabulary are kept as a hex suffix so nothing is hidden in logs.
func (f Flags) String() string {
	if f == None {
		return "none"
	}
	if f == Any {
		return "any"
	}
	var parts []string
	for _, e := range flagNames {
		if f&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	if rest := f &^ Any; rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

var flagNames = []struct {
	bit  Flags
	name string
}{
	{Left, "left"},
	{Right, "right"},
	{Up, "up"},
	{Down, "down"},
}

// ParseFlags parses a "left|right" style list of flag names. Recognized
// names: none, left, right, up, down, wall, ceiling, any.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	if strings.TrimSpace(s) == "" {
		return None, fmt.Errorf("empty collision flags")
	}
	for _, raw := range strings.Split(s, "|") {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "none":
			// contributes no bits
		case "left":
			f |= Left
		case "right":
			f |= Right
		case "up":
			f |= Up
		case "down":
			f |= Down
		case "wall":
			f |= Wall
		case "ceiling":
			f |= Ceiling
		case "any":
			f |= Any
		default:
			return None, fmt.Errorf("unknown collision flag %q", raw)
		}
	}
	return f, nil
}

// UnmarshalYAML accepts either a flag-name list ("up|down") or a raw
// integer mask. Raw masks are taken as-is, recognized or not.
func (f *Flags) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("collision flags must be a scalar")
	}
	if n, err := strconv.ParseUint(value.Value, 0, 32); err == nil {
		*f = Flags(n)
		return nil
	}
	parsed, err := ParseFlags(value.Value)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// MarshalYAML writes the flag-name form.
func (f Flags) MarshalYAML() (any, error) {
	return f.String(), nil
}
