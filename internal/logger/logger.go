package logger

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once sync.Once
	log  zerolog.Logger
)

// Get returns the process-wide logger. Level comes from LOG_LEVEL
// (debug|info|warn|error), defaulting to info.
func Get() zerolog.Logger {
	once.Do(func() {
		level := zerolog.InfoLevel
		switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
		case "debug":
			level = zerolog.DebugLevel
		case "warn":
			level = zerolog.WarnLevel
		case "error":
			level = zerolog.ErrorLevel
		}

		zerolog.TimeFieldFormat = time.RFC3339

		log = zerolog.New(os.Stdout).
			Level(level).
			With().
			Timestamp().
			Logger()
	})
	return log
}
