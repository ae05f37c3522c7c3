package eq

// Preset identifies one of the three fixed equalizer presets of spec.md §6.
// Represented as a small tagged index rather than virtual dispatch, per
// spec.md §9's guidance that the preset set is fixed and small.
type Preset int

const (
	Flat Preset = iota
	BassBoost
	Treble

	presetCount = int(Treble) + 1
)

// String returns the CLI-facing name of a preset.
func (p Preset) String() string {
	switch p {
	case Flat:
		return "flat"
	case BassBoost:
		return "bass-boost"
	case Treble:
		return "treble"
	default:
		return "unknown"
	}
}

// PresetCount is the number of selectable presets (spec.md §6: digit keys
// 1..k select a preset, where k = number of EQ presets).
func PresetCount() int { return presetCount }

// presetCoefficients holds the simple FIR tables for each preset. Flat is
// the identity filter; Treble is symmetric, BassBoost is not. BassBoost
// and Treble are small
// low-pass / high-pass shelving filters tuned for a 16-bit mono PCM stream
// sampled in the 8kHz-48kHz range the playback driver supports.
var presetCoefficients = map[Preset][]float64{
	Flat: {1.0},
	BassBoost: {
		0.06, 0.10, 0.14, 0.18, 0.20, 0.18, 0.14,
	},
	Treble: {
		-0.08, -0.12, 0.0, 0.9, 0.0, -0.12, -0.08,
	},
}

// NewPresetFilter builds the Filter for a given preset.
func NewPresetFilter(p Preset) *Filter {
	coeffs, ok := presetCoefficients[p]
	if !ok {
		return NewFilter(nil)
	}
	return NewFilter(coeffs)
}

// ParsePresetKey maps a 1-based digit key ('1'..'9') to a Preset, per
// spec.md §6's "digit keys 1..k select preset" runtime control.
func ParsePresetKey(key rune) (Preset, bool) {
	if key < '1' || int(key-'1') >= presetCount {
		return Flat, false
	}
	return Preset(key - '1'), true
}
