package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the process logger, tagged with the app name.
// APP_ENV=dev (or development) writes colored console lines at debug level,
// anything else JSON at info. A parseable level (LOG_LEVEL) wins over both.
func NewLogger(env, level string) zerolog.Logger {
	var out io.Writer = os.Stdout
	lvl := zerolog.InfoLevel
	if env == "dev" || env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		lvl = zerolog.DebugLevel
	}
	if level != "" {
		if l, err := zerolog.ParseLevel(level); err == nil {
			lvl = l
		}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("app", "turismo").Logger()
}
