// Package config parses the player's command-line flags and playlist
// arguments, per spec.md §6's CLI contract.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// SampleFormat identifies the on-wire PCM sample encoding selected by -f,
// inferred from the WAVE header's bits-per-sample when unset.
type SampleFormat int

const (
	FormatUnknown SampleFormat = iota
	FormatS16LE
	FormatS16BE
	FormatS24LE
	FormatS24BE
	FormatS24_3LE
	FormatS24_3BE
	FormatS32LE
	FormatS32BE
	FormatU8
)

// String returns a short human-readable name, used in log messages.
func (f SampleFormat) String() string {
	switch f {
	case FormatS16LE:
		return "S16LE"
	case FormatS16BE:
		return "S16BE"
	case FormatS24LE:
		return "S24LE"
	case FormatS24BE:
		return "S24BE"
	case FormatS24_3LE:
		return "S24_3LE"
	case FormatS24_3BE:
		return "S24_3BE"
	case FormatS32LE:
		return "S32LE"
	case FormatS32BE:
		return "S32BE"
	case FormatU8:
		return "U8"
	default:
		return "unknown"
	}
}

// formatCodes maps the -f flag's numeric codes per spec.md §6.
var formatCodes = map[int]SampleFormat{
	1: FormatS16LE,
	2: FormatS16BE,
	3: FormatS24LE,
	4: FormatS24BE,
	5: FormatS24_3LE,
	6: FormatS24_3BE,
	7: FormatS32LE,
	8: FormatS32BE,
}

// rateCodes maps the -r flag's numeric codes per spec.md §6.
var rateCodes = map[int]int{
	8:  8000,
	44: 44100,
	48: 48000,
	88: 88200,
}

// FormatFromBitsPerSample infers a SampleFormat from a WAVE header's
// bits_per_sample field, used when -f was not given or did not match a
// known code.
func FormatFromBitsPerSample(bits uint16) SampleFormat {
	switch bits {
	case 8:
		return FormatU8
	case 16:
		return FormatS16LE
	case 24:
		return FormatS24LE
	case 32:
		return FormatS32LE
	default:
		return FormatUnknown
	}
}

// Config holds the parsed CLI state for one playback run.
type Config struct {
	Format         SampleFormat // zero value: infer from the WAV header
	Rate           int          // zero value: take from the WAV header
	ExternalDevice bool         // -d nonzero: external device, no raw-max clamp
	Playlist       []string     // positional .wav file arguments
	LogPath        string
}

// Parse parses os.Args[1:] into a Config. Returns a non-nil error for any
// fatal configuration problem (spec.md §6: nonzero exit on fatal
// configuration error).
func Parse(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("player", pflag.ContinueOnError)

	formatCode := fs.IntP("format", "f", 0, "sample format code: 1=S16LE 2=S16BE 3=S24LE 4=S24BE 5=S24_3LE 6=S24_3BE 7=S32LE 8=S32BE (default: infer from WAV header)")
	rateCode := fs.IntP("rate", "r", 0, "sample rate code: 8=8000 44=44100 48=48000 88=88200 (default: take from WAV header)")
	deviceCode := fs.IntP("device", "d", 0, "nonzero selects external device mode (no raw-max clamp); zero selects on-board mode")
	logPath := fs.StringP("log", "l", "player.log", "append-only log file path")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-f format_code] [-r rate_code] [-d device_code] file1.wav [file2.wav ...]\n", fs.Name())
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	playlist := fs.Args()
	if len(playlist) == 0 {
		return nil, fmt.Errorf("config: at least one .wav file is required")
	}

	cfg := &Config{
		Rate:           rateCodes[*rateCode],
		ExternalDevice: *deviceCode != 0,
		Playlist:       playlist,
		LogPath:        *logPath,
	}
	if f, ok := formatCodes[*formatCode]; ok {
		cfg.Format = f
	}

	return cfg, nil
}
