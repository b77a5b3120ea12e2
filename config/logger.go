package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel maps DEBUG/INFO/WARN/ERROR onto zerolog levels. Unknown values fall back to INFO.
func LogLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetupLogger configures the global zerolog logger.
func SetupLogger(s Settings) {
	zerolog.SetGlobalLevel(LogLevel(s.LogLevel))
	zerolog.TimeFieldFormat = time.RFC3339

	if s.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("service", "dutyfree-shop").Logger()
}
