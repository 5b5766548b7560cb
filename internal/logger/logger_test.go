package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.level))
		})
	}
}

func TestNewSetsGlobalLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	New(Config{Level: "warn"})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestLoggerWritesStructuredOutput(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	l := New(Config{Level: "info"}).Output(&buf)
	l.Info().Str("collection_id", "col_abc").Msg("saved")
	l.Debug().Msg("hidden")

	assert.Contains(t, buf.String(), `"collection_id":"col_abc"`)
	assert.Contains(t, buf.String(), `"message":"saved"`)
	assert.NotContains(t, buf.String(), "hidden")
}
