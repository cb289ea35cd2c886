package quiz

// EventType identifies a session transition.
type EventType int

const (
	// EventCellEdited follows EditCell.
	EventCellEdited EventType = iota
	// EventChecked follows Check.
	EventChecked
	// EventNewRound follows NewRound.
	EventNewRound
	// EventSecretChanged follows SetSecret.
	EventSecretChanged
)

// String returns a human-readable name for the event type.
func (t EventType) String() string {
	switch t {
	case EventCellEdited:
		return "cell-edited"
	case EventChecked:
		return "checked"
	case EventNewRound:
		return "new-round"
	case EventSecretChanged:
		return "secret-changed"
	default:
		return "unknown"
	}
}

// Event describes a completed transition. View reflects the session right
// after the transition. Row, Col and Value are set for EventCellEdited only.
type Event struct {
	Type  EventType
	View  View
	Row   int
	Col   int
	Value float64
}

// SecretChanged reports whether the transition altered the secret matrix.
func (e Event) SecretChanged() bool {
	return e.Type == EventNewRound || e.Type == EventSecretChanged
}

// GuessChanged reports whether the transition altered the guess matrix.
func (e Event) GuessChanged() bool {
	return e.Type == EventCellEdited || e.Type == EventNewRound
}

// EventHandler receives session events. Handlers run synchronously on the
// goroutine that performed the transition, after the session lock is released.
type EventHandler func(Event)

// OnChange registers h to be called after every transition.
func (s *Session) OnChange(h EventHandler) {
	if h == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Copy on write so dispatch can iterate a stable slice without the lock.
	handlers := make([]EventHandler, len(s.handlers), len(s.handlers)+1)
	copy(handlers, s.handlers)
	s.handlers = append(handlers, h)
}

// eventUnlocked must be called while holding the mutex.
func (s *Session) eventUnlocked(t EventType) Event {
	return Event{Type: t, View: s.viewUnlocked()}
}

func dispatch(handlers []EventHandler, ev Event) {
	for _, h := range handlers {
		h(ev)
	}
}
