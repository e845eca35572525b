package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"taskpal/config"
	"taskpal/shared/logger"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw    string
		want   zerolog.Level
		wantOK bool
	}{
		{raw: "trace", want: zerolog.TraceLevel, wantOK: true},
		{raw: "debug", want: zerolog.DebugLevel, wantOK: true},
		{raw: "warn", want: zerolog.WarnLevel, wantOK: true},
		{raw: "disabled", want: zerolog.Disabled, wantOK: true},
		{raw: "", want: zerolog.InfoLevel, wantOK: false},
		{raw: "loud", want: zerolog.InfoLevel, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := logger.ParseLevel(tt.raw)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNew_ProductionWritesJSON(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Env = "production"
	cfg.App.Name = "TaskPal"

	var buf bytes.Buffer

	l := logger.New(cfg, &buf)
	l.Info().Str("booking_id", "b-1").Msg("booking created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "TaskPal", line["service"])
	assert.Equal(t, "production", line["env"])
	assert.Equal(t, "b-1", line["booking_id"])
	assert.Equal(t, "booking created", line["message"])
}

func TestNew_DevelopmentWritesConsole(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Env = "development"

	var buf bytes.Buffer

	l := logger.New(cfg, &buf)
	l.Info().Msg("server started")

	assert.Contains(t, buf.String(), "server started")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestSetLogLevel(t *testing.T) {
	original := log.Logger
	originalLevel := zerolog.GlobalLevel()

	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(originalLevel)
	})

	cfg := &config.Config{}
	cfg.Server.LogLevel = "error"

	logger.SetLogLevel(cfg)
	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())

	cfg.Server.LogLevel = "shouting"

	logger.SetLogLevel(cfg)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestErrorWithStack(t *testing.T) {
	original := log.Logger
	t.Cleanup(func() { log.Logger = original })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger.ErrorWithStack(errors.New("failed to insert booking"))

	assert.Contains(t, buf.String(), "failed to insert booking")
	assert.Contains(t, buf.String(), `"level":"error"`)
}
