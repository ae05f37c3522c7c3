package playback

// Playlist is a circular ordered list of track paths, advanced by the
// '.'/',' transport keys (spec.md §6: "next/previous track (circular)").
type Playlist struct {
	tracks []string
	index  int
}

// NewPlaylist builds a Playlist from an ordered, non-empty set of paths.
func NewPlaylist(tracks []string) *Playlist {
	return &Playlist{tracks: tracks}
}

// Len returns the number of tracks.
func (p *Playlist) Len() int { return len(p.tracks) }

// Current returns the path of the currently selected track.
func (p *Playlist) Current() string { return p.tracks[p.index] }

// Index returns the 0-based current track index.
func (p *Playlist) Index() int { return p.index }

// Next advances to the next track, wrapping to 0 past the last.
func (p *Playlist) Next() string {
	p.index = (p.index + 1) % len(p.tracks)
	return p.Current()
}

// Previous retreats to the previous track, wrapping to the last past 0.
func (p *Playlist) Previous() string {
	p.index = (p.index - 1 + len(p.tracks)) % len(p.tracks)
	return p.Current()
}
