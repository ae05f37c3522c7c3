package wsola

import "log/slog"

// ring is the engine's append-only, prefix-discardable sample store. All
// external access is by absolute stream offset (count of samples appended
// since the ring was created); wraparound into the fixed-size backing array
// is an internal detail callers never see.
//
// Not safe for concurrent use — the engine that owns a ring is itself
// single-threaded per call, matching the rest of the WSOLA state.
type ring struct {
	buf      []int16
	writePos int // next physical index to write
	readPos  int // physical index of the oldest retained sample
	content  int // number of occupied samples, 0 <= content <= len(buf)

	// baseOffset is the absolute offset of the sample at readPos.
	baseOffset int64

	logger *slog.Logger
}

// newRing allocates a ring with the given capacity (in samples).
func newRing(capacity int, logger *slog.Logger) *ring {
	if logger == nil {
		logger = slog.Default()
	}
	return &ring{
		buf:    make([]int16, capacity),
		logger: logger,
	}
}

func (r *ring) capacity() int { return len(r.buf) }

// append copies samples into the ring, advancing writePos and content
// modulo capacity. If the incoming data would overflow the ring, the
// oldest samples are overwritten and baseOffset is advanced by the
// overrun — a degraded mode that must be logged (spec.md §4.1, §7
// RingOverflow).
func (r *ring) append(samples []int16) {
	n := len(samples)
	capN := r.capacity()
	if n == 0 {
		return
	}

	if n > capN {
		// Only the tail of samples can possibly survive; everything
		// before that is immediately overwritten anyway.
		overrun := int64(n - capN)
		samples = samples[n-capN:]
		n = capN
		r.writePos = 0
		r.readPos = 0
		r.content = 0
		r.baseOffset += overrun
		r.logger.Warn("ring overflow: input chunk larger than ring capacity",
			"overrun", overrun, "capacity", capN)
	}

	overflow := r.content + n - capN
	if overflow > 0 {
		r.baseOffset += int64(overflow)
		r.readPos = (r.readPos + overflow) % capN
		r.content -= overflow
		r.logger.Warn("ring overflow: discarding oldest samples to make room",
			"overrun", overflow, "capacity", capN)
	}

	for i := 0; i < n; i++ {
		r.buf[(r.writePos+i)%capN] = samples[i]
	}
	r.writePos = (r.writePos + n) % capN
	r.content += n
}

// readSegment returns a contiguous copy of length samples starting at
// absolute offset startAbs. Fails if any part of the requested range is
// not currently retained.
func (r *ring) readSegment(startAbs int64, length int) ([]int16, bool) {
	if length <= 0 {
		return nil, startAbs >= r.baseOffset && startAbs <= r.baseOffset+int64(r.content)
	}
	if startAbs < r.baseOffset || startAbs+int64(length) > r.baseOffset+int64(r.content) {
		return nil, false
	}

	out := make([]int16, length)
	start := int(startAbs - r.baseOffset)
	capN := r.capacity()
	phys := (r.readPos + start) % capN
	for i := 0; i < length; i++ {
		out[i] = r.buf[phys]
		phys++
		if phys == capN {
			phys = 0
		}
	}
	return out, true
}

// discardTo advances readPos/baseOffset/content so that baseOffset is at
// least minRetainAbs, clamped to the content actually available.
func (r *ring) discardTo(minRetainAbs int64) {
	if minRetainAbs <= r.baseOffset {
		return
	}
	advance := minRetainAbs - r.baseOffset
	if advance > int64(r.content) {
		advance = int64(r.content)
	}
	r.readPos = (r.readPos + int(advance)) % r.capacity()
	r.baseOffset += advance
	r.content -= int(advance)
}

// end returns the absolute offset one past the last retained sample.
func (r *ring) end() int64 { return r.baseOffset + int64(r.content) }
