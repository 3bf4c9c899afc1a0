package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", FormatJSON)

	logger.Debug().Msg("hidden")
	logger.Error().Str("stage", "scaffolding").Msg("stage failed")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "error", event["level"])
	assert.Equal(t, "scaffolding", event["stage"])
	assert.Contains(t, event, "time")
}

func TestNewConsoleTagsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "debug", FormatConsole)

	logger.Warn().Msg("tool version is old")

	out := buf.String()
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "tool version is old")
}
