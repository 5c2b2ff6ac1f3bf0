package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lux-ventas/pkg/logger"
)

func TestNew_ProductionEscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Out: &buf})
	log.Component("notifier").Warn().Str("rep", "Adolfo").Msg("sin credenciales")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "notifier", line["component"])
	assert.Equal(t, "Adolfo", line["rep"])
}

func TestNew_NivelFiltraMensajes(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "error", Out: &buf})
	log.Info().Msg("no debe salir")
	assert.Empty(t, buf.String())
}

func TestComponent_ReemplazaEtiqueta(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Out: &buf})
	log.Component("queue").Component("worker").Info().Msg("iniciado")

	assert.Equal(t, 1, strings.Count(buf.String(), `"component"`))
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "worker", line["component"])
}

func TestNew_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "ruidoso", Out: &buf})
	log.Debug().Msg("no debe salir")
	log.Info().Msg("sí")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}
