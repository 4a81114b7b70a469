package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, Options{Level: "debug", Format: "json"})
	require.NoError(t, err)

	Subsystem(log, "pages").Debug().Str("page", "farms").Msg("rows loaded")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "pages", line["subsystem"])
	assert.Equal(t, "farms", line["page"])
	assert.Equal(t, "rows loaded", line["message"])
	assert.Contains(t, line, "time")
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, Options{Level: "WARN", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())
	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewConsoleWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	noColor := false
	log, err := New(&buf, Options{Color: &noColor})
	require.NoError(t, err)

	log.Info().Str("resource", "pigs").Msg("exported")
	out := buf.String()
	assert.Contains(t, out, "exported")
	assert.Contains(t, out, "resource=pigs")
	assert.NotContains(t, out, "\x1b[")
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(&bytes.Buffer{}, Options{Level: "verbose"})
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, Options{Format: "xml"})
	assert.EqualError(t, err, `unknown log format "xml"`)
}
