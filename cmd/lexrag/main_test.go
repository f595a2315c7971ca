package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexrag/internal/config"
	"lexrag/internal/index"
	"lexrag/internal/service"
)

func TestLogOutput(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lexrag.log")
		w, closeLog, err := logOutput(config.LogConfig{File: path}, true)
		require.NoError(t, err)
		_, err = io.WriteString(w, "hello\n")
		require.NoError(t, err)
		closeLog()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(data))
	})

	t.Run("interactive discards", func(t *testing.T) {
		w, closeLog, err := logOutput(config.LogConfig{}, true)
		require.NoError(t, err)
		defer closeLog()
		assert.Equal(t, io.Discard, w)
	})

	t.Run("query mode uses stderr", func(t *testing.T) {
		w, closeLog, err := logOutput(config.LogConfig{}, false)
		require.NoError(t, err)
		defer closeLog()
		assert.Equal(t, os.Stderr, w)
	})

	t.Run("unwritable file", func(t *testing.T) {
		_, _, err := logOutput(config.LogConfig{File: filepath.Join(t.TempDir(), "missing", "lexrag.log")}, true)
		assert.Error(t, err)
	})
}

func TestSummarize(t *testing.T) {
	report := service.IngestReport{
		Documents: []index.DocumentInfo{
			{ID: "a", Name: "a.txt", Chunks: 2},
			{ID: "b", Name: "b.md", Chunks: 1},
		},
		Chunks: 3,
	}
	assert.Equal(t, "2 documents, 3 chunks: a.txt (2), b.md (1)", summarize(report))
	assert.Equal(t, "0 documents, 0 chunks: ", summarize(service.IngestReport{}))
}
