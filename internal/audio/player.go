// Package audio drives a malgo playback device with mono 16-bit PCM
// samples produced by the WSOLA engine, per spec.md §4.7's host audio
// writer collaborator.
package audio

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gen2brain/malgo"
)

// ringSize is the number of int16 samples the playback ring holds before
// Write blocks. At 48kHz mono this is roughly 700ms of audio, enough to
// smooth over scheduling jitter without adding noticeable latency to
// pause/seek commands.
const ringSize = 32768

// sampleRing is a lock-free single-producer single-consumer ring buffer,
// adapted from the teacher's playbackRing for int16 samples instead of
// float32, with an explicit underrun counter the driver surfaces to the
// user as a diagnostic.
type sampleRing struct {
	samples   [ringSize]int16
	head      atomic.Uint64 // write position (producer)
	tail      atomic.Uint64 // read position (consumer, device callback)
	underruns atomic.Uint64
}

func (r *sampleRing) push(samples []int16) int {
	head := r.head.Load()
	tail := r.tail.Load()

	available := ringSize - int(head-tail)
	toWrite := len(samples)
	if toWrite > available {
		toWrite = available
	}
	for i := 0; i < toWrite; i++ {
		r.samples[(head+uint64(i))%ringSize] = samples[i]
	}
	r.head.Add(uint64(toWrite))
	return toWrite
}

func (r *sampleRing) pop() (int16, bool) {
	head := r.head.Load()
	tail := r.tail.Load()
	if head == tail {
		r.underruns.Add(1)
		return 0, false
	}
	s := r.samples[tail%ringSize]
	r.tail.Add(1)
	return s, true
}

func (r *sampleRing) occupied() int {
	return int(r.head.Load() - r.tail.Load())
}

func (r *sampleRing) clear() {
	r.tail.Store(r.head.Load())
}

// Player owns a persistent malgo playback device configured to the PCM
// stream's native sample rate (spec.md's devices do not resample; the
// WSOLA engine is the only component that changes the timeline).
type Player struct {
	ctx        *malgo.AllocatedContext
	device     *malgo.Device
	sampleRate uint32
	ring       *sampleRing
	muted      atomic.Bool
	logger     *slog.Logger
}

// NewPlayer initializes the audio context and starts a playback device at
// sampleRate. bufferMs follows the teacher's Bluetooth-friendly default of
// 100ms when zero.
func NewPlayer(sampleRate int, bufferMs uint32, logger *slog.Logger) (*Player, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("audio: init context: %w", err)
	}
	if bufferMs == 0 {
		bufferMs = 100
	}

	p := &Player{
		ctx:        ctx,
		sampleRate: uint32(sampleRate),
		ring:       &sampleRing{},
		logger:     logger,
	}

	if err := p.initDevice(bufferMs); err != nil {
		ctx.Uninit()
		ctx.Free()
		return nil, err
	}
	return p, nil
}

func (p *Player) initDevice(bufferMs uint32) error {
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = 1
	deviceConfig.SampleRate = p.sampleRate
	deviceConfig.PeriodSizeInMilliseconds = bufferMs

	onSendFrames := func(pOutputSample, pInputSamples []byte, framecount uint32) {
		muted := p.muted.Load()
		for i := 0; i < int(framecount); i++ {
			var sample int16
			if !muted {
				if s, ok := p.ring.pop(); ok {
					sample = s
				}
			}
			binary.LittleEndian.PutUint16(pOutputSample[i*2:], uint16(sample))
		}
	}

	device, err := malgo.InitDevice(p.ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onSendFrames})
	if err != nil {
		return fmt.Errorf("audio: init device: %w", err)
	}
	p.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("audio: start device: %w", err)
	}
	p.logger.Info("playback device started", "sample_rate", p.sampleRate, "buffer_ms", bufferMs)
	return nil
}

// Write blocks until all of samples has been queued for playback,
// retrying in small increments when the ring is temporarily full
// (spec.md §4.7's HostUnderrun retry behavior, mirrored on the write
// side: the driver backs off rather than dropping samples).
func (p *Player) Write(samples []int16) {
	for len(samples) > 0 {
		n := p.ring.push(samples)
		samples = samples[n:]
		if len(samples) > 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// Underruns returns the running count of output samples the playback
// callback filled with silence because the ring was empty, a diagnostic
// counter (spec.md §9's supplemented diagnostics exposure).
func (p *Player) Underruns() uint64 { return p.ring.underruns.Load() }

// Buffered returns the number of samples currently queued but not yet
// played.
func (p *Player) Buffered() int { return p.ring.occupied() }

// SetMuted silences output without discarding queued samples; while muted
// the callback does not consume the ring.
func (p *Player) SetMuted(muted bool) { p.muted.Store(muted) }

// Flush discards all queued-but-unplayed samples.
func (p *Player) Flush() { p.ring.clear() }

// Close releases the device and audio context.
func (p *Player) Close() {
	p.ring.clear()
	if p.device != nil {
		p.device.Stop()
		p.device.Uninit()
		p.device = nil
	}
	if p.ctx != nil {
		_ = p.ctx.Uninit()
		p.ctx.Free()
		p.ctx = nil
	}
}
