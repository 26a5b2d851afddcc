package physics

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"tilekit/tilesets"
)

// Tile types may name a collide script in their tileset spec. A script
// defines on_collide and receives an engine handle per contact:
//
//	on_collide := func(engine) {
//		v := engine.get_velocity()
//		if engine.touch() == "down" {
//			engine.set_velocity(v[0], -900)
//			engine.emit("boing")
//		}
//	}
//
// Scripts compile once per name and re-run per contact with fresh globals.
// Failures are logged and the contact otherwise proceeds.

const collideDispatchScript = `
if __phase == "collide" {
	on_collide(__engine)
}
`

type collideScript struct {
	name     string
	compiled *tengo.Compiled
}

func (w *World) runCollideScript(b *Body, c contact, name string) {
	if w.scripts == nil {
		w.scripts = make(map[string]*collideScript)
	}
	cs, ok := w.scripts[name]
	if !ok {
		loaded, err := loadCollideScript(name)
		if err != nil {
			log.Printf("physics: collide script %s: %v", name, err)
		}
		// a nil entry silences retries until the cache is dropped
		w.scripts[name] = loaded
		cs = loaded
	}
	if cs == nil {
		return
	}

	if err := cs.run("collide", w.buildCollideEngine(b, c)); err != nil {
		log.Printf("physics: collide script %s: %v", name, err)
	}
}

// DropScripts clears the compiled script cache so edited files are picked
// up on the next contact.
func (w *World) DropScripts() {
	w.scripts = nil
}

func loadCollideScript(name string) (*collideScript, error) {
	src, err := tilesets.LoadScript(name)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + collideDispatchScript))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}

	cs := &collideScript{name: name, compiled: compiled}

	// run the definitions once so on_collide can be checked up front
	if err := cs.run("noop", nil); err != nil {
		return nil, err
	}
	if !compiled.IsDefined("on_collide") {
		return nil, fmt.Errorf("missing on_collide")
	}
	return cs, nil
}

func (cs *collideScript) run(phase string, engine *tengo.ImmutableMap) error {
	if engine == nil {
		engine = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if err := cs.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := cs.compiled.Set("__engine", engine); err != nil {
		return err
	}
	return cs.compiled.Run()
}

func (w *World) buildCollideEngine(b *Body, c contact) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["get_velocity"] = &tengo.UserFunction{Name: "get_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Array{Value: []tengo.Object{
			&tengo.Float{Value: b.Velocity.X},
			&tengo.Float{Value: b.Velocity.Y},
		}}, nil
	}}

	values["set_velocity"] = &tengo.UserFunction{Name: "set_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := objectAsFloat(args[0])
		y, okY := objectAsFloat(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		b.Velocity.X = x
		b.Velocity.Y = y
		return tengo.TrueValue, nil
	}}

	values["touch"] = &tengo.UserFunction{Name: "touch", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: c.face.String()}, nil
	}}

	values["tile_index"] = &tengo.UserFunction{Name: "tile_index", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(c.cell.Index)}, nil
	}}

	values["tile_name"] = &tengo.UserFunction{Name: "tile_name", Value: func(args ...tengo.Object) (tengo.Object, error) {
		name := ""
		if c.cell.Tile != nil {
			name = c.cell.Tile.Name
		}
		return &tengo.String{Value: name}, nil
	}}

	values["emit"] = &tengo.UserFunction{Name: "emit", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		w.events = append(w.events, TileEvent{Body: b, Cell: c.cell, Name: name})
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectAsFloat(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value, true
	case *tengo.Int:
		return float64(v.Value), true
	default:
		return 0, false
	}
}
