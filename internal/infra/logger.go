package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger constructs a zerolog.Logger for the named component. Development
// builds log at debug level through the console writer; everything else
// writes JSON at info level.
func NewLogger(appEnv, component string) zerolog.Logger {
	return newLogger(os.Stdout, appEnv, component)
}

func newLogger(out io.Writer, appEnv, component string) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}
	if appEnv == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).
		Level(level).
		With().
		Timestamp()
	if component != "" {
		ctx = ctx.Str("component", component)
	}
	return ctx.Logger()
}

// Logger aliases the zerolog.Logger so callers outside the infra package can
// depend on the logging contract without importing the third-party module
// directly.
type Logger = zerolog.Logger
