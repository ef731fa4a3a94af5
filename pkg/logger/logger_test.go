package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CamposDeServicio(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "debug", Service: "worker", Output: &buf})

	l.Component("asynq").Info().Str("sale_id", "s-1").Msg("tarea procesada")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "worker", ev["service"])
	assert.Equal(t, "production", ev["env"])
	assert.Equal(t, "asynq", ev["component"])
	assert.Equal(t, "s-1", ev["sale_id"])
	assert.Equal(t, "info", ev["level"])
	assert.Equal(t, "tarea procesada", ev["message"])
}

func TestNew_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Output: &buf})

	l.Info().Msg("no se escribe")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("sí se escribe")
	assert.Contains(t, buf.String(), "sí se escribe")
	assert.NotContains(t, buf.String(), `"service"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel(" error "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verboso"))
}
