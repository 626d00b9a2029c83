// Package logging configures the process-wide zerolog logger and
// stamps a per-build correlation id onto it so every log line from one
// Model Builder pass can be grepped together.
package logging

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs a console-friendly zerolog writer at the given level
// ("debug", "info", "warn", "error") and returns the fresh build
// correlation id it stamped onto the global logger.
func Setup(level string) string {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	buildID := uuid.NewString()
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	log.Logger = zerolog.New(writer).With().Timestamp().Str("build_id", buildID).Logger()

	return buildID
}
