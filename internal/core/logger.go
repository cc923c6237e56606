package core

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to Logger.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger writes timestamped JSON lines at level or above to w
// (stderr when nil).
func NewZerologLogger(w io.Writer, level zerolog.Level) *ZerologLogger {
	if w == nil {
		w = os.Stderr
	}
	return &ZerologLogger{log: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// Zerolog exposes the wrapped logger for components that log natively.
func (l *ZerologLogger) Zerolog() zerolog.Logger { return l.log }

func (l *ZerologLogger) Debug(msg string, args ...any) { emit(l.log.Debug(), msg, args) }
func (l *ZerologLogger) Info(msg string, args ...any)  { emit(l.log.Info(), msg, args) }
func (l *ZerologLogger) Warn(msg string, args ...any)  { emit(l.log.Warn(), msg, args) }
func (l *ZerologLogger) Error(msg string, args ...any) { emit(l.log.Error(), msg, args) }

func emit(ev *zerolog.Event, msg string, args []any) {
	if ev == nil {
		return
	}
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = "arg"
		}
		if i+1 >= len(args) {
			ev = ev.Interface(key, nil)
			break
		}
		switch v := args[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}
