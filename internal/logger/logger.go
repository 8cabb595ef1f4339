package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "hffactors"

var (
	base zerolog.Logger
)

// Init configures the global JSON logger.
//
// Environment variables (optional):
//   - LOG_LEVEL: debug|info|warn|error (default: info)
//   - LOG_PRETTY: true|false (default: false)
func Init() {
	level := parseLevel(getenv("LOG_LEVEL", "info"))
	pretty := strings.EqualFold(getenv("LOG_PRETTY", "false"), "true")

	zerolog.TimeFieldFormat = time.RFC3339Nano
	var w io.Writer = os.Stdout
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	base = zerolog.New(w).With().Timestamp().Str("service", serviceName).Logger().Level(level)
}

// L returns the global logger. Call Init() once on startup.
func L() *zerolog.Logger {
	if base.GetLevel() == zerolog.NoLevel {
		Init()
	}
	return &base
}

// Component returns a child of the global logger tagged with the
// subsystem name (pipeline, engine, api, ...).
func Component(name string) zerolog.Logger {
	return L().With().Str("component", name).Logger()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
