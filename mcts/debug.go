//go:build debug

package mcts

import (
	"bytes"

	"github.com/rs/zerolog"
)

// lumberjack traces every phase of the search into an in-memory buffer. It only exists in debug builds.
type lumberjack struct {
	buf    *bytes.Buffer
	logger zerolog.Logger
}

func makeLumberJack() lumberjack {
	buf := new(bytes.Buffer)
	return lumberjack{
		buf:    buf,
		logger: zerolog.New(zerolog.ConsoleWriter{Out: buf, NoColor: true}),
	}
}

func (l *lumberjack) log(msg string, args ...interface{}) {
	l.logger.Debug().Msgf(msg, args...)
}

// ResetLog empties the trace buffer.
func (l *lumberjack) ResetLog() { l.buf.Reset() }

// Log returns everything traced so far.
func (l *lumberjack) Log() string { return l.buf.String() }
