// Package logger provides a global logger for the application
package logger

import (
	"flag"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

func initLogger() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

	debug := flag.Bool("debug", false, "sets log level to debug")
	trace := flag.Bool("trace", false, "sets log level to trace")
	info := flag.Bool("info", false, "sets log level to info (default)")
	flag.Parse()

	environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if environment == "" {
		environment = "prod"
	}

	var logLevel zerolog.Level
	switch environment {
	case "dev", "test":
		logLevel = zerolog.TraceLevel
	case "prod":
		logLevel = zerolog.InfoLevel
	default:
		logLevel = zerolog.InfoLevel
		log.Warn().Str("environment", environment).Msg("Unknown environment - defaulting to production log level (info and above)")
	}

	if *debug {
		logLevel = zerolog.DebugLevel
	} else if *trace {
		logLevel = zerolog.TraceLevel
	} else if *info {
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)
	log.Info().Str("environment", environment).Str("level", logLevel.String()).Msg("Logger initialized")
}

// Init initializes the logger with the configuration from the environment
// and command line flags.
// It sets up the global logger to use zerolog with console output.
// Example usage:
//
//	logger.Init() <- inside whichever main() function in your entrypoint
//
// Then, `go run cmd/server/main.go --debug`
func Init() {
	initLogger()
}
