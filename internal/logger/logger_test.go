package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithWriter_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info", false)

	Log.Info().Str("user_id", "u1").Msg("hello")

	assert.Contains(t, buf.String(), `"user_id":"u1"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info", false)
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	Log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, SetLevel("debug"))
	Log.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")

	assert.Error(t, SetLevel("verbose"))
}

func TestParseLogLevel_DefaultsToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel("loud"))
	assert.Equal(t, zerolog.WarnLevel, parseLogLevel("warn"))
}
