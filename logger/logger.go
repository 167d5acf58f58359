package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger implements Logger on top of zerolog.
type ZeroLogger struct {
	zlog *zerolog.Logger
}

var _ Logger = (*ZeroLogger)(nil)

// New creates a ZeroLogger writing to stdout. Unknown level strings fall back
// to info. When pretty is true the output is formatted for humans instead of
// line-delimited JSON.
func New(level string, pretty bool) *ZeroLogger {
	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}
	return NewWithOutput(level, out)
}

// NewWithOutput creates a ZeroLogger writing JSON records to w. Used to direct
// logs to a file sink or to a buffer in tests.
func NewWithOutput(level string, w io.Writer) *ZeroLogger {
	zLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zLevel = zerolog.InfoLevel
	}

	l := zerolog.New(w).With().Timestamp().Logger().Level(zLevel)
	return &ZeroLogger{zlog: &l}
}

// WithFields returns a logger that attaches fields to every record it emits.
func (l *ZeroLogger) WithFields(fields map[string]any) Logger {
	log := l.zlog.With().Fields(fields).Logger()
	return &ZeroLogger{zlog: &log}
}

// Debug creates a debug-level log event.
func (l *ZeroLogger) Debug() LogEvent {
	return &eventAdapter{event: l.zlog.Debug()}
}

// Info creates an info-level log event.
func (l *ZeroLogger) Info() LogEvent {
	return &eventAdapter{event: l.zlog.Info()}
}

// Warn creates a warning-level log event.
func (l *ZeroLogger) Warn() LogEvent {
	return &eventAdapter{event: l.zlog.Warn()}
}

// Error creates an error-level log event.
func (l *ZeroLogger) Error() LogEvent {
	return &eventAdapter{event: l.zlog.Error()}
}

// Fatal creates a fatal-level log event. Emitting it terminates the process.
func (l *ZeroLogger) Fatal() LogEvent {
	return &eventAdapter{event: l.zlog.Fatal()}
}

// eventAdapter adapts a zerolog event to the LogEvent interface.
type eventAdapter struct {
	event *zerolog.Event
}

func (e *eventAdapter) Msg(msg string) {
	e.event.Msg(msg)
}

func (e *eventAdapter) Msgf(format string, args ...any) {
	e.event.Msgf(format, args...)
}

func (e *eventAdapter) Err(err error) LogEvent {
	return &eventAdapter{event: e.event.Err(err)}
}

func (e *eventAdapter) Str(key, value string) LogEvent {
	return &eventAdapter{event: e.event.Str(key, value)}
}

func (e *eventAdapter) Int(key string, value int) LogEvent {
	return &eventAdapter{event: e.event.Int(key, value)}
}

func (e *eventAdapter) Int64(key string, value int64) LogEvent {
	return &eventAdapter{event: e.event.Int64(key, value)}
}

func (e *eventAdapter) Uint64(key string, value uint64) LogEvent {
	return &eventAdapter{event: e.event.Uint64(key, value)}
}

func (e *eventAdapter) Dur(key string, d time.Duration) LogEvent {
	return &eventAdapter{event: e.event.Dur(key, d)}
}
