// Package wsola implements a pitch-preserving time-scale modification engine
// (Waveform Similarity Overlap-Add) for monaural signed 16-bit PCM streams.
package wsola

import "errors"

// Sentinel error kinds. Only ErrInvalidConfig is returned, by New. The
// other two name conditions that Process handles itself: it stops its
// frame loop (logging a warning on a segment fetch failure) and returns
// the output produced so far; it never returns either error.
var (
	// ErrInvalidConfig is returned by New when construction parameters are
	// rejected (non-mono, non-positive rates, degenerate frame sizes).
	ErrInvalidConfig = errors.New("wsola: invalid config")

	// ErrInsufficientData means the engine cannot form another frame from
	// the data currently in the ring. Not fatal: call Process again once
	// more input has been appended.
	ErrInsufficientData = errors.New("wsola: insufficient data")

	// ErrSegmentFetch means the ring could not serve a segment the search
	// or synthesis stage needed mid-frame. The current frame is abandoned.
	ErrSegmentFetch = errors.New("wsola: segment fetch failure")
)
