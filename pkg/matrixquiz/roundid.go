package matrixquiz

import (
	"crypto/rand"
	"encoding/hex"
)

// RoundID identifies one round in log output so that the edits, checks and
// result of a round can be grouped together.
type RoundID string

// String returns the ID.
func (id RoundID) String() string {
	return string(id)
}

// NewRoundID returns a random 16 character hex ID.
func NewRoundID() RoundID {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return RoundID("0000000000000000")
	}
	return RoundID(hex.EncodeToString(b))
}

// roundLogger prefixes every record with the round number and ID.
type roundLogger struct {
	logger Logger
	round  int
	id     RoundID
}

func newRoundLogger(logger Logger, round int, id RoundID) *roundLogger {
	if logger == nil {
		logger = NopLogger()
	}
	return &roundLogger{logger: logger, round: round, id: id}
}

func (l *roundLogger) with(args []any) []any {
	return append([]any{"round", l.round, "round_id", string(l.id)}, args...)
}

func (l *roundLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, l.with(args)...) }
func (l *roundLogger) Info(msg string, args ...any)  { l.logger.Info(msg, l.with(args)...) }
func (l *roundLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, l.with(args)...) }
func (l *roundLogger) Error(msg string, args ...any) { l.logger.Error(msg, l.with(args)...) }
