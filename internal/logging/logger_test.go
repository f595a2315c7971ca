package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "lexrag", "info", "json")
	log.Debug("hidden")
	log.Info("indexed", "chunks", 4)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "indexed", rec["msg"])
	assert.Equal(t, "lexrag", rec["service"])
	assert.Equal(t, 4.0, rec["chunks"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "lexrag", "debug", "text").Debug("query", "terms", 2)
	assert.Contains(t, buf.String(), "msg=query")
	assert.Contains(t, buf.String(), "service=lexrag")
}
