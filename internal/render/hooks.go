package render

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrGameTerminated is returned when the game loop is terminated via context cancellation.
var ErrGameTerminated = errors.New("game terminated")

// ErrNoSurface is returned when an operation needs pixels but the surface
// has none.
var ErrNoSurface = errors.New("no drawing surface")

// ErrorHandler is a function type for handling errors during game updates.
type ErrorHandler func(err error)

// DefaultErrorHandler writes errors to stderr.
func DefaultErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "update error: %v\n", err)
}

// PlaneKind selects one of the two planes.
type PlaneKind int

const (
	// SecretPlane shows the randomly drawn matrix.
	SecretPlane PlaneKind = iota
	// GuessPlane shows the player's matrix.
	GuessPlane
)

// String returns the lower-case plane name.
func (k PlaneKind) String() string {
	switch k {
	case SecretPlane:
		return "secret"
	case GuessPlane:
		return "guess"
	default:
		return "unknown"
	}
}

// RenderHook observes plane redraws. drawn is false when the target surface
// was unusable and the render was skipped.
type RenderHook func(kind PlaneKind, drawn bool, elapsed time.Duration)
