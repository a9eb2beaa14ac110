package shared

import (
	"os"

	"github.com/rs/zerolog"
)

// SetupLogger configures zerolog with pretty console output on stderr.
func SetupLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
