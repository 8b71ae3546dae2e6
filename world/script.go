package world

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Limits for one script run
var (
	scriptTimeout   = 2 * time.Second
	maxScriptAllocs = int64(1_000_000)
)

// RunScript builds a map from a Tengo script.
// Globals `width` and `height` are provided. The script must define `rows`
// (array of strings in the map row format) and may define `cell_size` and `name`
func RunScript(ctx context.Context, src []byte, width, height int) (*Map, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	script.SetMaxAllocs(maxScriptAllocs)
	if err := script.Add("width", width); err != nil {
		return nil, fmt.Errorf("world: script: %w", err)
	}
	if err := script.Add("height", height); err != nil {
		return nil, fmt.Errorf("world: script: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, scriptTimeout)
	defer cancel()
	compiled, err := script.RunContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("world: script: %w", err)
	}

	if !compiled.IsDefined("rows") {
		return nil, fmt.Errorf("%w: script did not define rows", ErrInvalidMap)
	}
	raw := compiled.Get("rows").Array()
	if raw == nil {
		return nil, fmt.Errorf("%w: script rows is %s, want array", ErrInvalidMap, compiled.Get("rows").ValueType())
	}

	doc := Document{Name: "script", Rows: make([]string, 0, len(raw))}
	for i, r := range raw {
		s, ok := r.(string)
		if !ok {
			return nil, fmt.Errorf("%w: script rows[%d] is %T, want string", ErrInvalidMap, i, r)
		}
		doc.Rows = append(doc.Rows, s)
	}
	if compiled.IsDefined("cell_size") {
		doc.CellSize = compiled.Get("cell_size").Float()
	}
	if compiled.IsDefined("name") {
		if name := strings.TrimSpace(compiled.Get("name").String()); name != "" {
			doc.Name = name
		}
	}

	return doc.Map()
}

// LoadScript reads a Tengo script from disk and runs it
func LoadScript(ctx context.Context, path string, width, height int) (*Map, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("world: load script %s: %w", path, err)
	}
	m, err := RunScript(ctx, src, width, height)
	if err != nil {
		return nil, fmt.Errorf("world: %s: %w", path, err)
	}
	return m, nil
}
