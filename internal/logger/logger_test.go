package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel("Debug"))
	assert.False(t, ValidLevel("verbose"))
}

func TestComponentTagsEvents(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("info", false, &buf)
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log := Component("schedule")
	log.Info().Str("channel", "Horror").Msg("Packed day")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "schedule", line["component"])
	assert.Equal(t, "Horror", line["channel"])
	assert.Equal(t, "Packed day", line["message"])
}
