// Package logger defines the structured logging contract consumed by the
// connection layer and, later, the pool manager. Implementations must be safe
// for concurrent use.
package logger

import "time"

// Logger creates leveled log events. The connection layer receives a Logger at
// construction time and never reaches for a process-wide instance, so tests
// can substitute a silent or capturing sink.
type Logger interface {
	Debug() LogEvent
	Info() LogEvent
	Warn() LogEvent
	Error() LogEvent
	Fatal() LogEvent
	WithFields(fields map[string]any) Logger
}

// LogEvent is a log record under construction. Field methods return the event
// for chaining; Msg or Msgf finalizes and emits it.
type LogEvent interface {
	Msg(msg string)
	Msgf(format string, args ...any)
	Err(err error) LogEvent
	Str(key, value string) LogEvent
	Int(key string, value int) LogEvent
	Int64(key string, value int64) LogEvent
	Uint64(key string, value uint64) LogEvent
	Dur(key string, d time.Duration) LogEvent
}
