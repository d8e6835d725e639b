package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONCarriesServiceField(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Service: "client", Level: "debug", Format: "json", Output: &buf})

	log.WithField("op", "documents.list").Info("request complete")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "client", line["service"])
	assert.Equal(t, "documents.list", line["op"])
	assert.Equal(t, "request complete", line["msg"])
}

func TestNew_LevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Service: "client", Level: "warn", Format: "json", Output: &buf})

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Service: "client", Level: "loud", Format: "json", Output: &buf})

	log.Debug("dropped")
	assert.Zero(t, buf.Len())
	log.Info("kept")
	assert.NotZero(t, buf.Len())
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Service: "client", Level: "info", Format: "json", Output: &buf})

	log.WithError(errors.New("connection reset")).Error("request failed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "connection reset", line["error"])
}

func TestNop_Discards(t *testing.T) {
	// Must not panic and must not write anywhere observable.
	Nop().WithField("k", "v").Error("ignored")
}
