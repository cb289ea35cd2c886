package matrixquiz

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/opd-ai/go-matrixquiz/internal/config"
	"github.com/opd-ai/go-matrixquiz/internal/quiz"
)

// Plane names one of the two planes of the game window.
type Plane string

const (
	// SecretPlane shows the matrix to be guessed.
	SecretPlane Plane = "secret"
	// GuessPlane shows the player's current guess.
	GuessPlane Plane = "guess"
)

// ParsePlane accepts "secret" or "guess" in any case.
func ParsePlane(s string) (Plane, error) {
	switch p := Plane(strings.ToLower(strings.TrimSpace(s))); p {
	case SecretPlane, GuessPlane:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidWhich, s)
	}
}

// Quiz is an embedded game instance. It is safe for concurrent use.
type Quiz interface {
	// Run shows the game window and blocks until it is closed or ctx is
	// cancelled. In headless mode it only waits for ctx.
	Run(ctx context.Context) error

	// ReloadConfig re-reads the configuration source and applies it in
	// place. The current round, guess and message are kept. On failure
	// the previous configuration stays active.
	ReloadConfig() error

	// Snapshot renders one plane off-screen and writes it to w as PNG.
	Snapshot(w io.Writer, which Plane) error

	// Session returns the round state machine driven by the window.
	Session() *quiz.Session

	// Config returns a copy of the active configuration.
	Config() config.Config

	// IsRunning reports whether Run is in progress.
	IsRunning() bool

	// Status returns a summary of the instance.
	Status() Status

	// Health returns a health check of the instance and its components.
	Health() HealthCheck

	// Metrics returns the metrics collector of the instance.
	Metrics() *Metrics

	// SetErrorHandler registers a callback for runtime errors.
	SetErrorHandler(handler ErrorHandler)

	// SetEventHandler registers a callback for lifecycle events.
	SetEventHandler(handler EventHandler)
}

// New creates a Quiz from a Lua configuration file. An empty path uses the
// built-in defaults.
//
// Example:
//
//	q, err := matrixquiz.New("quiz.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Fatal(q.Run(context.Background()))
func New(configPath string, opts *Options) (Quiz, error) {
	if configPath == "" {
		cfg := config.DefaultConfig()
		return newQuiz(&cfg, "defaults", "", nil, opts)
	}

	loader := func() (*config.Config, error) {
		return parseWith(func(p *config.Parser) (*config.Config, error) {
			return p.ParseFile(configPath)
		})
	}
	cfg, err := loader()
	if err != nil {
		return nil, NewCategorizedError(fmt.Errorf("parse config: %w", err), ErrorCategoryConfig, SeverityCritical).
			WithContext("path", configPath)
	}
	return newQuiz(cfg, configPath, configPath, loader, opts)
}

// NewFromFS creates a Quiz from a configuration file inside fsys, such as
// an embed.FS.
func NewFromFS(fsys fs.FS, configPath string, opts *Options) (Quiz, error) {
	loader := func() (*config.Config, error) {
		return parseWith(func(p *config.Parser) (*config.Config, error) {
			return p.ParseFromFS(fsys, configPath)
		})
	}
	cfg, err := loader()
	if err != nil {
		return nil, NewCategorizedError(fmt.Errorf("parse config from FS: %w", err), ErrorCategoryConfig, SeverityCritical).
			WithContext("path", configPath)
	}
	return newQuiz(cfg, "embedded:"+configPath, "", loader, opts)
}

// NewFromReader creates a Quiz from Lua source read from r. The content is
// kept so ReloadConfig re-applies it.
func NewFromReader(r io.Reader, opts *Options) (Quiz, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, NewCategorizedError(fmt.Errorf("read config: %w", err), ErrorCategoryIO, SeverityCritical)
	}
	loader := func() (*config.Config, error) {
		return parseWith(func(p *config.Parser) (*config.Config, error) {
			return p.ParseReader(bytes.NewReader(content))
		})
	}
	cfg, err := loader()
	if err != nil {
		return nil, NewCategorizedError(fmt.Errorf("parse config: %w", err), ErrorCategoryConfig, SeverityCritical)
	}
	return newQuiz(cfg, "reader", "", loader, opts)
}

// parseWith runs fn with a short-lived parser so that no Lua runtime
// outlives a load.
func parseWith(fn func(p *config.Parser) (*config.Config, error)) (*config.Config, error) {
	p, err := config.NewParser()
	if err != nil {
		return nil, fmt.Errorf("parser init: %w", err)
	}
	defer p.Close()
	return fn(p)
}
