package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, setup("warn", "json", &buf))

	log.Info().Msg("hidden")
	log.Warn().Str("store", "firestore").Msg("visible")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "visible", line["message"])
	assert.Equal(t, "firestore", line["store"])
}

func TestSetup_Rejects(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, setup("loud", "json", &buf))
	assert.Error(t, setup("info", "xml", &buf))
}
