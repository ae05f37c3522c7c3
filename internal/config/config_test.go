package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequiresPlaylist(t *testing.T) {
	_, err := Parse(nil)
	require.Error(t, err)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]string{"track.wav"})
	require.NoError(t, err)
	assert.Equal(t, FormatUnknown, cfg.Format)
	assert.Equal(t, 0, cfg.Rate)
	assert.False(t, cfg.ExternalDevice)
	assert.Equal(t, []string{"track.wav"}, cfg.Playlist)
}

func TestParseFormatAndRateCodes(t *testing.T) {
	cfg, err := Parse([]string{"-f", "2", "-r", "48", "-d", "1", "a.wav", "b.wav"})
	require.NoError(t, err)
	assert.Equal(t, FormatS16BE, cfg.Format)
	assert.Equal(t, 48000, cfg.Rate)
	assert.True(t, cfg.ExternalDevice)
	assert.Equal(t, []string{"a.wav", "b.wav"}, cfg.Playlist)
}

func TestParseUnknownCodeFallsBackToInference(t *testing.T) {
	cfg, err := Parse([]string{"-f", "99", "track.wav"})
	require.NoError(t, err)
	assert.Equal(t, FormatUnknown, cfg.Format)
}

func TestFormatFromBitsPerSample(t *testing.T) {
	assert.Equal(t, FormatU8, FormatFromBitsPerSample(8))
	assert.Equal(t, FormatS16LE, FormatFromBitsPerSample(16))
	assert.Equal(t, FormatS24LE, FormatFromBitsPerSample(24))
	assert.Equal(t, FormatS32LE, FormatFromBitsPerSample(32))
	assert.Equal(t, FormatUnknown, FormatFromBitsPerSample(12))
}
