package applog

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleFormatsLevelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	h := New(&buf)
	logger := slog.New(h)

	logger.Info("playback started", "track", "a.wav")

	line := buf.String()
	assert.Contains(t, line, "[INFO] playback started")
	assert.Contains(t, line, "track=a.wav")
	assert.True(t, strings.HasPrefix(line, "["))
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestHandleMapsErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(New(&buf))
	logger.Error("device failed", "error", "no device")
	assert.Contains(t, buf.String(), "[ERROR] device failed")
}

func TestWithAttrsAppendsToEveryRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(New(&buf)).With("session", "s1")
	logger.Info("tick")
	assert.Contains(t, buf.String(), "session=s1")
}

func TestOpenAppendsAndFlushes(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/player.log"

	h1, logger1, err := Open(path)
	require.NoError(t, err)
	logger1.Info("first")
	require.NoError(t, h1.Close())

	h2, logger2, err := Open(path)
	require.NoError(t, err)
	logger2.Info("second")
	require.NoError(t, h2.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}
