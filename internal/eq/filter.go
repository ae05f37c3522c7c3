// Package eq implements the fixed-point-output FIR equalizer collaborator
// of spec.md §4.7: a pure convolution over a mono 16-bit PCM stream with a
// small set of fixed presets.
package eq

// MaxFIRTaps bounds the coefficient tables accepted by NewFilter; tap
// counts outside [1, MaxFIRTaps] are treated as pass-through, per spec.md
// §4.7.
const MaxFIRTaps = 64

// Filter convolves a mono int16 PCM stream with up to MaxFIRTaps
// double-precision coefficients, keeping a per-stream circular history of
// taps-1 samples between calls to Apply.
type Filter struct {
	coeffs  []float64
	history []int16 // length len(coeffs)-1, oldest first
}

// NewFilter builds a Filter from a coefficient table. Zero taps or a tap
// count outside [1, MaxFIRTaps] yields a pass-through filter, per the
// spec's bypass-on-invalid-config rule.
func NewFilter(coeffs []float64) *Filter {
	f := &Filter{}
	if len(coeffs) < 1 || len(coeffs) > MaxFIRTaps {
		return f
	}
	f.coeffs = append([]float64(nil), coeffs...)
	f.history = make([]int16, len(coeffs)-1)
	return f
}

// passThrough reports whether this filter has no usable coefficients.
func (f *Filter) passThrough() bool {
	return len(f.coeffs) == 0
}

// Reset zeroes the circular history. Called when the preset or track
// changes, per spec.md §4.7.
func (f *Filter) Reset() {
	for i := range f.history {
		f.history[i] = 0
	}
}

// Apply convolves in into out, which must have the same length as in.
// Output is clamped to the signed 16-bit range. A pass-through filter
// (zero or out-of-range tap count) copies in to out unmodified.
func (f *Filter) Apply(in, out []int16) {
	if f.passThrough() {
		copy(out, in)
		return
	}

	taps := len(f.coeffs)
	histLen := len(f.history)

	// combined[0:histLen] is the retained history, combined[histLen:] is
	// the new input — mirrors the teacher pack's polyphase resampler
	// history-splicing pattern.
	combined := make([]int16, histLen+len(in))
	copy(combined, f.history)
	copy(combined[histLen:], in)

	for i := range in {
		var acc float64
		// combined[histLen+i] is the current sample; taps-1 prior
		// samples extend backward from there.
		for k := 0; k < taps; k++ {
			idx := histLen + i - k
			if idx < 0 {
				continue
			}
			acc += f.coeffs[k] * float64(combined[idx])
		}
		out[i] = clampFloat16(acc)
	}

	if len(in) >= histLen {
		copy(f.history, in[len(in)-histLen:])
	} else {
		shift := histLen - len(in)
		copy(f.history, f.history[len(in):])
		copy(f.history[shift:], in)
	}
}

func clampFloat16(v float64) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	default:
		return int16(v)
	}
}
