// Package playback implements the cooperative, single-threaded driver
// loop of spec.md §4.7/§5: it reads fixed-size chunks from the current
// track, applies the equalizer, feeds the WSOLA engine, and writes the
// result to the host audio device, while polling stdin for transport
// keys between chunks.
package playback

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/agalue/pcmplayer/internal/audio"
	"github.com/agalue/pcmplayer/internal/config"
	"github.com/agalue/pcmplayer/internal/eq"
	"github.com/agalue/pcmplayer/internal/mixer"
	"github.com/agalue/pcmplayer/internal/wavfile"
	"github.com/agalue/pcmplayer/internal/wsola"
)

// chunkFrames is the number of frames read from disk per driver
// iteration. The engine is built with four times this as its max input
// chunk.
const chunkFrames = 4096

// speeds is the fixed domain cycled by the '['/']' transport keys.
var speeds = []float64{0.5, 1.0, 1.5, 2.0}

// secondsPerSeek is the ±10s jump performed by the 'f'/'b' keys.
const secondsPerSeek = 10

// Driver owns the mixer and the FIR filter history and runs the playlist
// to completion or until a fatal I/O error occurs. The host audio device
// is opened and closed by playTrack for each track.
type Driver struct {
	cfg    *config.Config
	logger *slog.Logger
	keys   *keyReader
	mix    *mixer.Mixer
	sw     *softwareMixer

	speedIdx int
	preset   eq.Preset
	filter   *eq.Filter
	paused   bool
}

// New constructs a Driver. The host audio device itself is opened per
// track, since each track may carry a different sample rate.
func New(cfg *config.Config, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	sw := newSoftwareMixer(rawMaxFor(cfg.ExternalDevice))
	d := &Driver{
		cfg:      cfg,
		logger:   logger,
		keys:     newKeyReader(os.Stdin),
		mix:      mixer.New(0, rawMaxFor(cfg.ExternalDevice), cfg.ExternalDevice, sw),
		sw:       sw,
		speedIdx: 1, // 1.0x
		filter:   eq.NewPresetFilter(eq.Flat),
	}
	return d
}

func rawMaxFor(externalDevice bool) int {
	if externalDevice {
		return 1000
	}
	return 512
}

// Run plays the playlist to completion. It returns nil on normal
// end-of-playlist and a non-nil error for a fatal I/O/configuration
// failure (spec.md §6's exit-code contract).
func (d *Driver) Run(pl *Playlist) error {
	for {
		path := pl.Current()
		action, err := d.playTrack(path, pl)
		if err != nil {
			return fmt.Errorf("playback: track %s: %w", path, err)
		}
		switch action {
		case trackActionQuit:
			return nil
		case trackActionJump:
			continue
		case trackActionNaturalEnd:
			if pl.Index() == pl.Len()-1 {
				d.logger.Info("end of playlist")
				return nil
			}
			pl.Next()
		}
	}
}

type trackAction int

const (
	trackActionNaturalEnd trackAction = iota
	trackActionJump
	trackActionQuit
)

// playTrack plays one file until it ends naturally or a transport key
// changes track. It returns trackActionJump when '.'/',' was pressed and
// trackActionNaturalEnd when the file's sample data runs out.
func (d *Driver) playTrack(path string, pl *Playlist) (trackAction, error) {
	wf, err := wavfile.Open(path)
	if err != nil {
		return 0, err
	}
	defer wf.Close()

	rate := d.cfg.Rate
	if rate == 0 {
		rate = int(wf.Format.SampleRate)
	}
	format := d.cfg.Format
	if format == config.FormatUnknown {
		format = config.FormatFromBitsPerSample(wf.Format.BitsPerSample)
	}
	channels := int(wf.Format.Channels)

	d.logger.Info("playing track", "path", path, "rate", rate, "channels", channels, "format", format.String())

	player, err := audio.NewPlayer(rate, 0, d.logger)
	if err != nil {
		return 0, fmt.Errorf("opening audio device: %w", err)
	}
	defer player.Close()

	d.filter.Reset()

	var engine *wsola.Engine
	if channels == 1 {
		engine, err = wsola.New(wsola.Config{
			SampleRate:    rate,
			Channels:      1,
			FrameMillis:   15,
			OverlapFrac:   0.5,
			SearchMillis:  5,
			MaxInputChunk: chunkFrames * 4,
			Logger:        d.logger,
		})
		if err != nil {
			return 0, fmt.Errorf("constructing engine: %w", err)
		}
		engine.SetSpeed(speeds[d.speedIdx])
	}

	defer func() {
		if engine != nil {
			d.logger.Info("track playback stats", "path", path, "output_samples_total", engine.OutputSamplesTotal())
		}
	}()

	raw := make([]byte, chunkFrames*bytesPerSample(format)*max(channels, 1))
	const maxOutput = chunkFrames * 4

	seekBytes := int64(secondsPerSeek * rate * bytesPerSample(format) * max(channels, 1))

	for {
		if action, jumped := d.pollKeys(pl, wf, engine, seekBytes); jumped {
			return action, nil
		}

		if d.paused {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		n, err := wf.ReadChunk(raw)
		if n > 0 {
			samples := decodeToInt16(raw[:n], format)
			samples = downmixToMono(samples, channels)

			eqOut := make([]int16, len(samples))
			d.filter.Apply(samples, eqOut)

			if engine != nil {
				produced := engine.Process(eqOut, maxOutput)
				d.writeOut(player, produced)
			} else {
				d.writeOut(player, eqOut)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return trackActionNaturalEnd, nil
			}
			return 0, fmt.Errorf("reading samples: %w", err)
		}
	}
}

func (d *Driver) writeOut(player *audio.Player, samples []int16) {
	if len(samples) == 0 {
		return
	}
	applyGain(samples, d.sw.gain())
	player.Write(samples)
	if u := player.Underruns(); u > 0 {
		d.logger.Warn("host underrun", "count", u)
	}
}

// pollKeys drains pending transport keys. Returns (action, true) when the
// current track must stop (next/previous track).
func (d *Driver) pollKeys(pl *Playlist, wf *wavfile.File, engine *wsola.Engine, seekBytes int64) (trackAction, bool) {
	for {
		ru, ok := d.keys.poll()
		if !ok {
			return 0, false
		}
		switch ru {
		case '+':
			if err := d.mix.VolumeUp(); err != nil {
				d.logger.Warn("volume up failed", "error", err)
			}
		case '-':
			if err := d.mix.VolumeDown(); err != nil {
				d.logger.Warn("volume down failed", "error", err)
			}
		case 'p':
			d.paused = !d.paused
		case '.':
			pl.Next()
			return trackActionJump, true
		case ',':
			pl.Previous()
			return trackActionJump, true
		case 'f':
			if err := wf.SeekSamples(seekBytes); err != nil {
				d.logger.Warn("seek forward failed", "error", err)
			}
		case 'b':
			if err := wf.SeekSamples(-seekBytes); err != nil {
				d.logger.Warn("seek backward failed", "error", err)
			}
		case '[':
			if d.speedIdx > 0 {
				d.speedIdx--
			}
			if engine != nil {
				engine.SetSpeed(speeds[d.speedIdx])
			}
		case ']':
			if d.speedIdx < len(speeds)-1 {
				d.speedIdx++
			}
			if engine != nil {
				engine.SetSpeed(speeds[d.speedIdx])
			}
		default:
			if p, ok := eq.ParsePresetKey(ru); ok {
				d.preset = p
				d.filter = eq.NewPresetFilter(p)
			}
		}
	}
}
