package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sync/pkg/logger"
)

func TestNew_ProduccionEscribeJSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	log.Component("collector").Info().Str("market", "DE").Msg("mercado recolectado")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "collector", line["component"])
	assert.Equal(t, "DE", line["market"])
	assert.Equal(t, "info", line["level"])
}

func TestNew_NivelFiltraEventos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	log.Info().Msg("no debe salir")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("sí sale")
	assert.NotZero(t, buf.Len())
}

func TestNew_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "verbose", Output: &buf})

	log.Debug().Msg("debug descartado")
	assert.Zero(t, buf.Len())
	log.Info().Msg("info visible")
	assert.NotZero(t, buf.Len())
}

func TestSubloggers_AcumulanEjecucionYMercado(t *testing.T) {
	var buf bytes.Buffer
	root := logger.New(logger.Config{Env: "production", Output: &buf})

	root.Component("summarizer").Run("run-1").Market("FR").Info().Msg("resumen listo")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "summarizer", line[logger.FieldComponent])
	assert.Equal(t, "run-1", line[logger.FieldRunID])
	assert.Equal(t, "FR", line[logger.FieldMarket])

	buf.Reset()
	root.Info().Msg("raíz sin campos")
	line = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.NotContains(t, line, logger.FieldRunID)
}

func TestNew_DesarrolloEscribeConsola(t *testing.T) {
	var buf bytes.Buffer
	logger.New(logger.Config{Env: "development", Output: &buf}).Info().Msg("hola")

	assert.Contains(t, buf.String(), "hola")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestNop_NoEscribe(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Run("x").Error().Msg("descartado") })
}
