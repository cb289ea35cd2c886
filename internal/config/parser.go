// Package config provides configuration parsing for matrixquiz.
// This file implements the file, reader and fs.FS entry points.

package config

import (
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Parser reads matrixquiz configuration files. The Lua runtime is reused
// across calls; call Close when done.
type Parser struct {
	luaParser *LuaConfigParser
	expandEnv bool
}

// NewParser creates a new Parser. Environment variables in string values
// are expanded after parsing.
func NewParser() (*Parser, error) {
	luaParser, err := NewLuaConfigParser()
	if err != nil {
		return nil, fmt.Errorf("failed to create Lua parser: %w", err)
	}

	return &Parser{
		luaParser: luaParser,
		expandEnv: true,
	}, nil
}

// SetExpandEnv toggles environment variable expansion of string values.
func (p *Parser) SetExpandEnv(expand bool) {
	p.expandEnv = expand
}

// ParseFile reads and parses a configuration file.
// Returns a Config on success or an error if parsing fails.
func (p *Parser) ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return p.Parse(content)
}

// Parse parses configuration content.
func (p *Parser) Parse(content []byte) (*Config, error) {
	cfg, err := p.luaParser.Parse(content)
	if err != nil {
		return nil, err
	}
	if p.expandEnv {
		ExpandEnvConfig(cfg)
	}
	return cfg, nil
}

// ParseFromFS reads and parses a configuration file from an embedded filesystem.
func (p *Parser) ParseFromFS(fsys fs.FS, path string) (*Config, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS %s: %w", path, err)
	}

	return p.Parse(content)
}

// ParseReader parses configuration from an io.Reader.
// Use this for dynamically generated configurations.
func (p *Parser) ParseReader(r io.Reader) (*Config, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return p.Parse(content)
}

// Close releases resources associated with the parser.
func (p *Parser) Close() error {
	if p.luaParser != nil {
		return p.luaParser.Close()
	}
	return nil
}

// Load parses the file at path, or returns the defaults when path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		return &cfg, nil
	}
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ParseFile(path)
}
