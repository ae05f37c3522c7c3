package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaylistNextWraps(t *testing.T) {
	pl := NewPlaylist([]string{"a.wav", "b.wav", "c.wav"})
	assert.Equal(t, "a.wav", pl.Current())
	assert.Equal(t, "b.wav", pl.Next())
	assert.Equal(t, "c.wav", pl.Next())
	assert.Equal(t, "a.wav", pl.Next())
}

func TestPlaylistPreviousWraps(t *testing.T) {
	pl := NewPlaylist([]string{"a.wav", "b.wav", "c.wav"})
	assert.Equal(t, "c.wav", pl.Previous())
	assert.Equal(t, "b.wav", pl.Previous())
}

func TestPlaylistSingleTrackWrapsToItself(t *testing.T) {
	pl := NewPlaylist([]string{"only.wav"})
	assert.Equal(t, "only.wav", pl.Next())
	assert.Equal(t, "only.wav", pl.Previous())
}
