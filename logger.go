package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var debugMode bool

// InitLogger initializes the global logger based on LOG_LEVEL
func InitLogger(levelStr string) {
	level := zerolog.InfoLevel

	switch strings.ToLower(levelStr) {
	case "trace":
		level = zerolog.TraceLevel
		debugMode = true
	case "debug":
		level = zerolog.DebugLevel
		debugMode = true
	case "info":
		level = zerolog.InfoLevel
	case "warn", "warning":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	case "fatal":
		level = zerolog.FatalLevel
	}

	zerolog.SetGlobalLevel(level)

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log.Logger = log.Output(output).With().Caller().Logger()

	log.Info().
		Str("level", level.String()).
		Bool("debug_mode", debugMode).
		Msg("Logger initialized")
}
