package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/pkg/logger"
)

func TestNew_ProduccionEscribeJSONConServicio(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Service: "pos-api", Output: &buf})

	l.Info().Int64("sale_id", 7).Msg("venta registrada")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "pos-api", line["service"])
	assert.Equal(t, "venta registrada", line["message"])
	assert.EqualValues(t, 7, line["sale_id"])
}

func TestNew_RespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	l.Info().Msg("no debe salir")
	assert.Empty(t, buf.String())

	l.Warn().Msg("sí debe salir")
	assert.Contains(t, buf.String(), "sí debe salir")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logger.ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, logger.ParseLevel("warning"))
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel("desconocido"))
}
