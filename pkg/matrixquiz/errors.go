package matrixquiz

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/opd-ai/go-matrixquiz/internal/render"
)

var (
	// ErrNoSurface is returned by Snapshot when the configured plane has
	// no pixels to encode.
	ErrNoSurface = render.ErrNoSurface
	// ErrInvalidWhich is returned for a plane name other than "secret" or "guess".
	ErrInvalidWhich = errors.New("plane must be \"secret\" or \"guess\"")
	// ErrAlreadyRunning is returned by Run on an instance that is running.
	ErrAlreadyRunning = errors.New("quiz already running")
	// ErrNoConfigSource is returned by ReloadConfig when the instance was
	// built from defaults.
	ErrNoConfigSource = errors.New("no configuration source to reload")
)

// ErrorCategory classifies errors for tracking.
type ErrorCategory int

const (
	// ErrorCategoryUnknown is the default category.
	ErrorCategoryUnknown ErrorCategory = iota
	// ErrorCategoryConfig covers parsing, validation and reload failures.
	ErrorCategoryConfig
	// ErrorCategoryRender covers drawing and window errors.
	ErrorCategoryRender
	// ErrorCategoryInput covers rejected cell edits.
	ErrorCategoryInput
	// ErrorCategoryIO covers file and writer errors.
	ErrorCategoryIO

	numErrorCategories
)

// String returns a human-readable name for the category.
func (c ErrorCategory) String() string {
	switch c {
	case ErrorCategoryConfig:
		return "config"
	case ErrorCategoryRender:
		return "render"
	case ErrorCategoryInput:
		return "input"
	case ErrorCategoryIO:
		return "io"
	default:
		return "unknown"
	}
}

// ErrorSeverity indicates how serious an error is.
type ErrorSeverity int

const (
	// SeverityInfo needs no action.
	SeverityInfo ErrorSeverity = iota
	// SeverityWarning is worth investigating.
	SeverityWarning
	// SeverityError affects functionality but the game keeps running.
	SeverityError
	// SeverityCritical stops the game.
	SeverityCritical
)

// String returns a human-readable name for the severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// CategorizedError wraps an error with a category, a severity and
// free-form context.
type CategorizedError struct {
	Err       error
	Category  ErrorCategory
	Severity  ErrorSeverity
	Timestamp time.Time
	Context   map[string]string
}

// NewCategorizedError creates a CategorizedError stamped with the current time.
func NewCategorizedError(err error, category ErrorCategory, severity ErrorSeverity) *CategorizedError {
	return &CategorizedError{
		Err:       err,
		Category:  category,
		Severity:  severity,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface.
func (e *CategorizedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s/%s] (no error)", e.Severity, e.Category)
	}
	return fmt.Sprintf("[%s/%s] %v", e.Severity, e.Category, e.Err)
}

// Unwrap returns the wrapped error.
func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// WithContext sets a context value and returns e.
func (e *CategorizedError) WithContext(key, value string) *CategorizedError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// categorize wraps err unless it already carries a category.
func categorize(err error, category ErrorCategory, severity ErrorSeverity) *CategorizedError {
	var ce *CategorizedError
	if errors.As(err, &ce) {
		return ce
	}
	return NewCategorizedError(err, category, severity)
}

// ErrorStats summarizes the errors held by an ErrorTracker.
type ErrorStats struct {
	// Retained is the number of errors currently held.
	Retained int
	// ByCategory counts retained errors per category.
	ByCategory map[ErrorCategory]int
	// BySeverity counts retained errors per severity.
	BySeverity map[ErrorSeverity]int
	// Lifetime counts every recorded error per category, including
	// errors already evicted.
	Lifetime map[ErrorCategory]int64
}

// ErrorTracker keeps the most recent categorized errors in a bounded
// buffer. It is safe for concurrent use.
type ErrorTracker struct {
	mu       sync.RWMutex
	errors   []CategorizedError
	capacity int
	lifetime [numErrorCategories]int64
}

// DefaultErrorCapacity is the buffer size used by NewErrorTracker(0).
const DefaultErrorCapacity = 256

// NewErrorTracker creates a tracker holding at most capacity errors.
// Non-positive capacities use DefaultErrorCapacity.
func NewErrorTracker(capacity int) *ErrorTracker {
	if capacity <= 0 {
		capacity = DefaultErrorCapacity
	}
	return &ErrorTracker{
		errors:   make([]CategorizedError, 0, capacity),
		capacity: capacity,
	}
}

// Record adds err, evicting the oldest entry when full. Nil is ignored.
func (t *ErrorTracker) Record(err *CategorizedError) {
	if err == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if err.Category >= 0 && err.Category < numErrorCategories {
		t.lifetime[err.Category]++
	}
	if len(t.errors) == t.capacity {
		copy(t.errors, t.errors[1:])
		t.errors = t.errors[:len(t.errors)-1]
	}
	t.errors = append(t.errors, *err)
}

// Recent returns up to limit of the newest errors, oldest first.
func (t *ErrorTracker) Recent(limit int) []CategorizedError {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if limit <= 0 || len(t.errors) == 0 {
		return nil
	}
	start := max(len(t.errors)-limit, 0)
	out := make([]CategorizedError, len(t.errors)-start)
	copy(out, t.errors[start:])
	return out
}

// Stats returns a summary of the tracked errors.
func (t *ErrorTracker) Stats() ErrorStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := ErrorStats{
		Retained:   len(t.errors),
		ByCategory: make(map[ErrorCategory]int),
		BySeverity: make(map[ErrorSeverity]int),
		Lifetime:   make(map[ErrorCategory]int64),
	}
	for _, e := range t.errors {
		stats.ByCategory[e.Category]++
		stats.BySeverity[e.Severity]++
	}
	for i, n := range t.lifetime {
		if n > 0 {
			stats.Lifetime[ErrorCategory(i)] = n
		}
	}
	return stats
}

// Clear drops the retained errors. Lifetime counts are kept.
func (t *ErrorTracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors = t.errors[:0]
}
