package logger

import (
	"context"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger     = zerolog.New(os.Stdout).With().Timestamp().Logger()
	loggerLock sync.RWMutex
)

type requestIDKey struct{}

// Setup configures the process logger. Development gets a console writer, anything else JSON.
func Setup(env, level string) {
	var output io.Writer = os.Stdout
	if env != "production" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.Kitchen,
		}
	}

	loggerLock.Lock()
	logger = zerolog.New(output).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
	loggerLock.Unlock()
}

// SetOutput replaces the writer, keeping the current level.
func SetOutput(w io.Writer) {
	loggerLock.Lock()
	lvl := logger.GetLevel()
	logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	loggerLock.Unlock()
}

func SetLevel(level string) {
	loggerLock.Lock()
	logger = logger.Level(parseLevel(level))
	loggerLock.Unlock()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func current() *zerolog.Logger {
	loggerLock.RLock()
	defer loggerLock.RUnlock()
	l := logger
	return &l
}

func Debug() *zerolog.Event { return current().Debug() }
func Info() *zerolog.Event  { return current().Info() }
func Warn() *zerolog.Event  { return current().Warn() }
func Error() *zerolog.Event { return current().Error() }
func Fatal() *zerolog.Event { return current().Fatal() }

// Ctx returns a logger carrying the request id stored in ctx, if any.
func Ctx(ctx context.Context) *zerolog.Logger {
	l := current()
	if rid := RequestID(ctx); rid != "" {
		withID := l.With().Str("request_id", rid).Logger()
		return &withID
	}
	return l
}

// WithRequestID stores the request id for Ctx and RequestID.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// StdLogger adapts the logger for http.Server.ErrorLog and similar stdlib hooks.
func StdLogger() *stdlog.Logger {
	return stdlog.New(current().Level(zerolog.WarnLevel), "", 0)
}
