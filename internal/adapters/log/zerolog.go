package log

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/fndeploy/internal/ports"
)

// ZerologAdapter implements ports.Logger using zerolog.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewConsoleLoggerTo returns a zerolog.Logger writing human readable lines to w.
func NewConsoleLoggerTo(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// NewZerologAdapterWithLogger creates an adapter wrapping an existing zerolog.Logger.
func NewZerologAdapterWithLogger(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// Debug logs a debug-level message.
func (z *ZerologAdapter) Debug(msg string, fields ...ports.Field) {
	emit(z.logger.Debug(), msg, fields)
}

// Info logs an info-level message.
func (z *ZerologAdapter) Info(msg string, fields ...ports.Field) {
	emit(z.logger.Info(), msg, fields)
}

// Warn logs a warning-level message.
func (z *ZerologAdapter) Warn(msg string, fields ...ports.Field) {
	emit(z.logger.Warn(), msg, fields)
}

// Error logs an error-level message.
func (z *ZerologAdapter) Error(msg string, fields ...ports.Field) {
	emit(z.logger.Error(), msg, fields)
}

func emit(event *zerolog.Event, msg string, fields []ports.Field) {
	for _, f := range fields {
		event = addField(event, f)
	}
	event.Msg(msg)
}

// addField adds a Field to a zerolog.Event.
func addField(event *zerolog.Event, f ports.Field) *zerolog.Event {
	switch v := f.Value.(type) {
	case string:
		return event.Str(f.Key, v)
	case []string:
		return event.Strs(f.Key, v)
	case int:
		return event.Int(f.Key, v)
	case int64:
		return event.Int64(f.Key, v)
	case bool:
		return event.Bool(f.Key, v)
	case time.Duration:
		return event.Dur(f.Key, v)
	case error:
		return event.Err(v)
	default:
		return event.Interface(f.Key, v)
	}
}
