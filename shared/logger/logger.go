package logger

import (
	"io"
	"os"
	"taskpal/config"
	"taskpal/shared/constant"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLevel = zerolog.InfoLevel

// InitLogger installs a human readable logger so that configuration loading can log.
// SetLogLevel replaces it once the configuration is known.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

// New builds the process logger. Production emits JSON lines tagged with the
// service and environment, every other environment writes to the console.
func New(cfg *config.Config, out io.Writer) zerolog.Logger {
	if cfg.Server.Env != constant.ServerEnvProduction {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(out).With().
		Timestamp().
		Str("service", cfg.App.Name).
		Str("env", cfg.Server.Env).
		Logger()
}

// ParseLevel falls back to info when the configured level is empty or unknown.
func ParseLevel(raw string) (zerolog.Level, bool) {
	level, err := zerolog.ParseLevel(raw)
	if err != nil || raw == "" {
		return defaultLevel, false
	}

	return level, true
}

func SetLogLevel(cfg *config.Config) {
	log.Logger = New(cfg, os.Stdout)

	level, ok := ParseLevel(cfg.Server.LogLevel)
	if !ok {
		log.Warn().Str("loglevel", cfg.Server.LogLevel).Msg("Unknown log level, using info.")
	}

	zerolog.SetGlobalLevel(level)
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}
