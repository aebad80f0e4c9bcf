package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "debug", "json", "mediverse")
	logger.Debug().Str("patient_id", "p1").Msg("admitted")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "mediverse", entry["service"])
	assert.Equal(t, "p1", entry["patient_id"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewWithWriter_UnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "loud", "json", "")
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())

	logger.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
}
