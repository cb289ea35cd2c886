// Package quiz implements the round state machine of matrixquiz: a secret
// matrix sampled per round, a guess edited one cell at a time, and an exact
// comparison that produces the round's result message.
package quiz

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/opd-ai/go-matrixquiz/internal/linalg"
)

// State is the position of a Session in the round loop.
type State int

const (
	// AwaitingGuess is the initial state of every round and the state
	// re-entered after each cell edit.
	AwaitingGuess State = iota
	// Evaluated follows a check action.
	Evaluated
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case AwaitingGuess:
		return "awaiting-guess"
	case Evaluated:
		return "evaluated"
	default:
		return "unknown"
	}
}

// Result is the outcome of the most recent check.
type Result int

const (
	// Unevaluated means no check has been performed this round.
	Unevaluated Result = iota
	// Correct means the guess matched the secret cell by cell.
	Correct
	// Incorrect means at least one cell differed.
	Incorrect
)

// String returns a human-readable name for the result.
func (r Result) String() string {
	switch r {
	case Unevaluated:
		return "unevaluated"
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// Default result messages.
const (
	DefaultSuccessMessage = "Correto! Você acertou a matriz."
	DefaultFailureMessage = "Errado! Tente novamente."
)

// Messages holds the text displayed for each evaluated result.
type Messages struct {
	Success string
	Failure string
}

// DefaultMessages returns the stock success and failure messages.
func DefaultMessages() Messages {
	return Messages{Success: DefaultSuccessMessage, Failure: DefaultFailureMessage}
}

// For returns the message for r, or "" when r is Unevaluated.
func (m Messages) For(r Result) string {
	switch r {
	case Correct:
		return m.Success
	case Incorrect:
		return m.Failure
	default:
		return ""
	}
}

// Sampler produces secret matrices. *linalg.Sampler implements it.
type Sampler interface {
	Sample() linalg.Matrix
}

// View is a point-in-time copy of a Session.
type View struct {
	Secret   linalg.Matrix
	Guess    linalg.Matrix
	State    State
	Result   Result
	Message  string
	Round    int
	Attempts int
}

// Session owns the per-round state that the UI reads and mutates through
// the transition methods. It is safe for concurrent use.
type Session struct {
	sampler  Sampler
	messages Messages
	secret   linalg.Matrix
	guess    linalg.Matrix
	state    State
	result   Result
	message  string
	round    int
	attempts int
	handlers []EventHandler
	mu       sync.RWMutex
}

// NewSession creates a Session and starts the first round.
// A nil sampler uses a randomly seeded linalg.Sampler.
func NewSession(sampler Sampler, messages Messages) *Session {
	if sampler == nil {
		sampler = linalg.NewSampler(nil)
	}
	if messages.Success == "" {
		messages.Success = DefaultSuccessMessage
	}
	if messages.Failure == "" {
		messages.Failure = DefaultFailureMessage
	}
	s := &Session{sampler: sampler, messages: messages}
	s.startRoundUnlocked()
	return s
}

// EditCell parses raw as a real number and stores it in Guess[r][c].
// Text that does not parse as a finite number is stored as 0.
// The state returns to AwaitingGuess; the secret is untouched.
func (s *Session) EditCell(r, c int, raw string) error {
	value := ParseCell(raw)

	s.mu.Lock()
	if err := s.guess.Set(r, c, value); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = AwaitingGuess
	ev := s.eventUnlocked(EventCellEdited)
	ev.Row, ev.Col, ev.Value = r, c, value
	handlers := s.handlers
	s.mu.Unlock()

	dispatch(handlers, ev)
	return nil
}

// Check compares Guess with Secret for exact equality of all four cells
// and records the result and its message.
func (s *Session) Check() Result {
	s.mu.Lock()
	if s.guess.Equal(s.secret) {
		s.result = Correct
	} else {
		s.result = Incorrect
	}
	s.message = s.messages.For(s.result)
	s.state = Evaluated
	s.attempts++
	ev := s.eventUnlocked(EventChecked)
	handlers := s.handlers
	result := s.result
	s.mu.Unlock()

	dispatch(handlers, ev)
	return result
}

// NewRound samples a fresh secret, zeroes the guess and clears the message.
func (s *Session) NewRound() {
	s.mu.Lock()
	s.startRoundUnlocked()
	ev := s.eventUnlocked(EventNewRound)
	handlers := s.handlers
	s.mu.Unlock()

	dispatch(handlers, ev)
}

// SetSecret replaces the secret of the current round without touching the
// guess. It exists for scripted rounds and tests.
func (s *Session) SetSecret(m linalg.Matrix) {
	s.mu.Lock()
	s.secret = m
	ev := s.eventUnlocked(EventSecretChanged)
	handlers := s.handlers
	s.mu.Unlock()

	dispatch(handlers, ev)
}

// SetMessages replaces the result messages. An already displayed message is
// updated to the new text.
func (s *Session) SetMessages(m Messages) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.Success != "" {
		s.messages.Success = m.Success
	}
	if m.Failure != "" {
		s.messages.Failure = m.Failure
	}
	s.message = s.messages.For(s.result)
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewUnlocked()
}

// Secret returns the secret matrix of the current round.
func (s *Session) Secret() linalg.Matrix {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.secret
}

// Guess returns the current guess matrix.
func (s *Session) Guess() linalg.Matrix {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guess
}

// Message returns the text for the current result, or "" when unevaluated.
func (s *Session) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.message
}

// startRoundUnlocked must be called while holding the mutex.
func (s *Session) startRoundUnlocked() {
	s.secret = s.sampler.Sample()
	s.guess = linalg.Zero()
	s.state = AwaitingGuess
	s.result = Unevaluated
	s.message = ""
	s.attempts = 0
	s.round++
}

// viewUnlocked must be called while holding the mutex.
func (s *Session) viewUnlocked() View {
	return View{
		Secret:   s.secret,
		Guess:    s.guess,
		State:    s.state,
		Result:   s.result,
		Message:  s.message,
		Round:    s.round,
		Attempts: s.attempts,
	}
}

// ParseCell converts input text to a cell value. Empty, malformed,
// NaN and infinite input yields 0.
func ParseCell(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
