package matrixquiz

import "time"

// Status describes a Quiz instance.
type Status struct {
	// Running reports whether Run is in progress.
	Running bool
	// StartTime is when Run last started; zero if it never did.
	StartTime time.Time
	// ConfigSource is the file path, "embedded:<path>", "reader" or "defaults".
	ConfigSource string
	// Round is the current round number, starting at 1.
	Round int
	// RoundID tags the log output of the current round.
	RoundID RoundID
	// Attempts is the number of checks in the current round.
	Attempts int
	// LastError is the most recent reported error, or nil.
	LastError error
}

// ErrorHandler receives runtime errors. It is called on its own goroutine;
// panics are recovered.
type ErrorHandler func(err error)

// EventHandler receives lifecycle events. It is called on its own
// goroutine; panics are recovered.
type EventHandler func(event Event)

// Event is a lifecycle notification.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Message   string
}

// EventType enumerates lifecycle events.
type EventType int

const (
	// EventStarted follows the start of Run.
	EventStarted EventType = iota
	// EventStopped follows the end of Run.
	EventStopped
	// EventConfigReloaded follows a successful ReloadConfig.
	EventConfigReloaded
	// EventRoundStarted follows a new round.
	EventRoundStarted
	// EventRoundSolved follows a correct check.
	EventRoundSolved
	// EventError follows a reported error.
	EventError
)

// String returns the name of the event type.
func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventConfigReloaded:
		return "config_reloaded"
	case EventRoundStarted:
		return "round_started"
	case EventRoundSolved:
		return "round_solved"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
