// Package config provides configuration parsing for matrixquiz.
// This file implements the Lua configuration parser.

package config

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// LuaConfigParser parses Lua configuration files.
// It uses the Golua runtime to execute Lua code and extract configuration
// values from the quiz.config table.
type LuaConfigParser struct {
	runtime *rt.Runtime
	cleanup func()
	mu      sync.Mutex
}

// NewLuaConfigParser creates a new LuaConfigParser with a fresh Lua runtime.
func NewLuaConfigParser() (*LuaConfigParser, error) {
	return NewLuaConfigParserWithOutput(io.Discard)
}

// NewLuaConfigParserWithOutput creates a LuaConfigParser with custom output
// for Lua print calls.
func NewLuaConfigParserWithOutput(stdout io.Writer) (*LuaConfigParser, error) {
	if stdout == nil {
		stdout = os.Stdout
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	return &LuaConfigParser{
		runtime: runtime,
		cleanup: cleanup,
	}, nil
}

// Parse parses a Lua configuration from content bytes.
// Keys missing from quiz.config keep their default values.
func (p *LuaConfigParser) Parse(content []byte) (*Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.initQuizGlobal()

	closure, err := p.runtime.CompileAndLoadLuaChunk(
		"config",
		content,
		rt.TableValue(p.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile Lua configuration: %w", err)
	}

	// Execute with resource limits
	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    10_000_000,
			Memory: 50 * 1024 * 1024, // 50 MB
		},
	}
	p.runtime.PushContext(ctx)
	defer p.runtime.PopContext()

	thread := p.runtime.MainThread()
	_, err = rt.Call1(thread, rt.FunctionValue(closure))
	if err != nil {
		return nil, fmt.Errorf("failed to execute Lua configuration: %w", err)
	}

	return p.extractConfig()
}

// initQuizGlobal installs a fresh quiz global with an empty config table,
// so each Parse starts clean.
func (p *LuaConfigParser) initQuizGlobal() {
	quizTable := rt.NewTable()
	quizTable.Set(rt.StringValue("config"), rt.TableValue(rt.NewTable()))
	p.runtime.GlobalEnv().Set(rt.StringValue("quiz"), rt.TableValue(quizTable))
}

// extractConfig extracts configuration values from the quiz global table.
func (p *LuaConfigParser) extractConfig() (*Config, error) {
	cfg := DefaultConfig()

	quizVal := p.runtime.GlobalEnv().Get(rt.StringValue("quiz"))
	if quizVal == rt.NilValue {
		return &cfg, nil
	}

	quizTable, ok := quizVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("quiz is not a table")
	}

	configVal := quizTable.Get(rt.StringValue("config"))
	if configVal == rt.NilValue {
		return &cfg, nil
	}
	configTable, ok := configVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("quiz.config is not a table")
	}
	if err := p.extractConfigTable(&cfg, configTable); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// extractConfigTable extracts configuration values from the quiz.config table.
func (p *LuaConfigParser) extractConfigTable(cfg *Config, table *rt.Table) error {
	// Window
	if val := getTableString(table, "title"); val != nil {
		cfg.Window.Title = *val
	}
	if val := getTableFloat(table, "font_size"); val != nil {
		cfg.Window.FontSize = *val
	}
	if val := getTableBool(table, "show_determinant"); val != nil {
		cfg.Window.ShowDeterminant = *val
	}
	if val := getTableBool(table, "antialias"); val != nil {
		cfg.Window.Antialias = *val
	}

	// Plane geometry
	intFields := []struct {
		key    string
		target *int
	}{
		{"plane_width", &cfg.Plane.Width},
		{"plane_height", &cfg.Plane.Height},
		{"unit", &cfg.Plane.Unit},
		{"label_range", &cfg.Plane.LabelRange},
		{"grid_margin", &cfg.Plane.GridMargin},
	}
	for _, f := range intFields {
		if val := getTableInt(table, f.key); val != nil {
			*f.target = *val
		}
	}
	floatFields := []struct {
		key    string
		target *float64
	}{
		{"label_size", &cfg.Plane.LabelSize},
		{"line_width", &cfg.Plane.LineWidth},
		{"shape_width", &cfg.Plane.ShapeWidth},
	}
	for _, f := range floatFields {
		if val := getTableFloat(table, f.key); val != nil {
			*f.target = *val
		}
	}

	if val := getTableString(table, "line_cap"); val != nil {
		cfg.Plane.LineCap = *val
	}
	if val := getTableString(table, "line_join"); val != nil {
		cfg.Plane.LineJoin = *val
	}

	// Quiz
	if val := table.Get(rt.StringValue("seed")); val != rt.NilValue {
		n, ok := val.TryInt()
		if !ok {
			return fmt.Errorf("invalid seed: must be an integer")
		}
		cfg.Quiz.Seed = n
	}
	if val := getTableString(table, "success_message"); val != nil {
		cfg.Quiz.SuccessMessage = *val
	}
	if val := getTableString(table, "failure_message"); val != nil {
		cfg.Quiz.FailureMessage = *val
	}

	return p.extractColors(cfg, table)
}

// extractColors extracts color configuration from the table.
func (p *LuaConfigParser) extractColors(cfg *Config, table *rt.Table) error {
	colorFields := []struct {
		key    string
		target *color.RGBA
	}{
		{"background_color", &cfg.Colors.Background},
		{"plane_background", &cfg.Colors.PlaneBackground},
		{"text_color", &cfg.Colors.Text},
		{"secret_color", &cfg.Colors.Secret},
		{"guess_color", &cfg.Colors.Guess},
		{"axis_color", &cfg.Colors.Axis},
		{"grid_color", &cfg.Colors.Grid},
		{"label_color", &cfg.Colors.Label},
	}

	for _, cf := range colorFields {
		if val := getTableString(table, cf.key); val != nil {
			c, err := parseColor(*val)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", cf.key, err)
			}
			*cf.target = c
		}
	}

	edges, err := getTableColors(table, "edge_colors")
	if err != nil {
		return fmt.Errorf("invalid edge_colors: %w", err)
	}
	if edges != nil {
		cfg.Colors.Edges = edges
	}
	return nil
}

// Close releases resources associated with the parser's Lua runtime.
func (p *LuaConfigParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return nil
}

// getTableBool retrieves a boolean value from a Lua table.
// Returns nil if the key doesn't exist or is not a boolean.
func getTableBool(table *rt.Table, key string) *bool {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if b, ok := val.TryBool(); ok {
		return &b
	}

	// Handle string "true"/"false"/"yes"/"no" for convenience
	if s, ok := val.TryString(); ok {
		b := parseBool(s)
		return &b
	}

	return nil
}

// getTableString retrieves a string value from a Lua table.
// Returns nil if the key doesn't exist or is not a string.
func getTableString(table *rt.Table, key string) *string {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if s, ok := val.TryString(); ok {
		return &s
	}

	return nil
}

// getTableFloat retrieves a float64 value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableFloat(table *rt.Table, key string) *float64 {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if n, ok := val.TryFloat(); ok {
		return &n
	}

	// Try int conversion
	if n, ok := val.TryInt(); ok {
		f := float64(n)
		return &f
	}

	return nil
}

// getTableInt retrieves an int value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableInt(table *rt.Table, key string) *int {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if n, ok := val.TryInt(); ok {
		i := int(n)
		return &i
	}

	// Try float conversion (truncate)
	if f, ok := val.TryFloat(); ok {
		i := int(f)
		return &i
	}

	return nil
}

// getTableColors retrieves a colour list given either as a Lua array of
// colour strings or as one comma-separated string. Returns nil, nil if the
// key doesn't exist.
func getTableColors(table *rt.Table, key string) ([]color.RGBA, error) {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil, nil
	}

	if s, ok := val.TryString(); ok {
		colors, err := parseColorList(s)
		if err != nil {
			return nil, err
		}
		return append([]color.RGBA{}, colors...), nil
	}

	arr, ok := val.TryTable()
	if !ok {
		return nil, fmt.Errorf("expected a string or an array of strings")
	}
	colors := []color.RGBA{}
	for i := int64(1); ; i++ {
		item := arr.Get(rt.IntValue(i))
		if item == rt.NilValue {
			break
		}
		s, ok := item.TryString()
		if !ok {
			return nil, fmt.Errorf("entry %d is not a string", i)
		}
		c, err := parseColor(s)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		colors = append(colors, c)
	}
	return colors, nil
}

// parseBool interprets yes/true/1 as true and anything else as false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}
