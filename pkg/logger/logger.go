package logx

import (
	"io"
	"os"
	"strings"

	"github.com/assistant-console/core/internal/core"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var DefaultLoggerOpts = &LoggerOpts{
	Environment: core.Development,
}

type LoggerOpts struct {
	Environment core.Environment
	// Level overrides the environment default when set (debug, info, warn, error).
	Level string
	// Writer replaces stdout/console output, mostly for tests.
	Writer io.Writer
}

func safe(opts ...LoggerOpts) *LoggerOpts {
	if len(opts) == 0 {
		return DefaultLoggerOpts
	}
	return &opts[0]
}

func Init(opts ...LoggerOpts) {
	o := safe(opts...)

	if o.Environment.IsProduction() {
		w := o.Writer
		if w == nil {
			w = os.Stdout
		}
		log.Logger = zerolog.New(w).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	} else {
		cw := zerolog.NewConsoleWriter()
		if o.Writer != nil {
			cw.Out = o.Writer
			cw.NoColor = true
		}
		log.Logger = zerolog.New(cw).With().Timestamp().Caller().Logger().Level(zerolog.DebugLevel)
	}

	if lvl, ok := ParseLevel(o.Level); ok {
		log.Logger = log.Logger.Level(lvl)
	}
}

// ParseLevel maps a LOG_LEVEL value to a zerolog level. ok is false for
// empty or unknown values.
func ParseLevel(v string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	default:
		return zerolog.NoLevel, false
	}
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Panic() *zerolog.Event {
	return log.Panic()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
