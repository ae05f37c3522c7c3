package wsola

import (
	"fmt"
	"log/slog"
	"math"
)

// Config holds the constructor-time parameters of spec.md §3.
type Config struct {
	SampleRate int // Hz, must be positive
	Channels   int // must be 1; anything else is rejected

	FrameMillis   float64 // analysis frame length, milliseconds
	OverlapFrac   float64 // overlap fraction in [0, 1)
	SearchMillis  float64 // search half-window length, milliseconds (>= 0)
	RingSlack     int     // extra ring capacity beyond the minimum spec.md §3 requires
	MaxInputChunk int     // largest single Append the caller will ever make

	Logger *slog.Logger
}

// Engine owns the WSOLA state of spec.md §3. It is not safe for concurrent
// use: exactly one goroutine may call Process, or write Speed, at a time.
type Engine struct {
	sampleRate int
	channels   int

	n           int // N: analysis frame samples
	overlap     int // N_o: overlap samples
	hopAnalysis int // H_a = N - N_o
	searchHalf  int // S_w

	window []int16

	speed float64

	r *ring

	tail []int16 // N_o pending overlap-add samples

	nextIdealOffset int64
	emittedAnyFrame bool

	outputSamplesTotal int64

	logger *slog.Logger
}

// New constructs an Engine. It fails with ErrInvalidConfig for non-mono
// channel counts, non-positive sample rates, or frame parameters that
// violate N > 0, 0 <= N_o < N, H_a > 0.
func New(cfg Config) (*Engine, error) {
	if cfg.Channels != 1 {
		return nil, fmt.Errorf("%w: channels must be 1, got %d", ErrInvalidConfig, cfg.Channels)
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfig, cfg.SampleRate)
	}
	if cfg.FrameMillis <= 0 {
		return nil, fmt.Errorf("%w: frame milliseconds must be positive", ErrInvalidConfig)
	}
	if cfg.OverlapFrac < 0 || cfg.OverlapFrac >= 1 {
		return nil, fmt.Errorf("%w: overlap fraction must be in [0,1), got %v", ErrInvalidConfig, cfg.OverlapFrac)
	}
	if cfg.SearchMillis < 0 {
		return nil, fmt.Errorf("%w: search milliseconds must be >= 0", ErrInvalidConfig)
	}

	n := int(math.Round(cfg.FrameMillis * float64(cfg.SampleRate) / 1000))
	if n <= 0 {
		return nil, fmt.Errorf("%w: derived frame size N must be positive", ErrInvalidConfig)
	}
	overlap := int(math.Round(cfg.OverlapFrac * float64(n)))
	if overlap < 0 || overlap >= n {
		return nil, fmt.Errorf("%w: derived overlap N_o=%d must satisfy 0<=N_o<N=%d", ErrInvalidConfig, overlap, n)
	}
	hopAnalysis := n - overlap
	if hopAnalysis <= 0 {
		return nil, fmt.Errorf("%w: derived analysis hop H_a must be positive", ErrInvalidConfig)
	}
	searchHalf := int(math.Round(cfg.SearchMillis * float64(cfg.SampleRate) / 1000))
	if searchHalf < 0 {
		searchHalf = 0
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxChunk := cfg.MaxInputChunk
	if maxChunk <= 0 {
		maxChunk = n * 4
	}
	slack := cfg.RingSlack
	if slack <= 0 {
		slack = n
	}
	capacity := maxChunk + n + 2*searchHalf + slack

	e := &Engine{
		sampleRate:  cfg.SampleRate,
		channels:    1,
		n:           n,
		overlap:     overlap,
		hopAnalysis: hopAnalysis,
		searchHalf:  searchHalf,
		window:      hannWindowQ15(n),
		speed:       1.0,
		r:           newRing(capacity, logger),
		tail:        make([]int16, overlap),
		logger:      logger,
	}
	return e, nil
}

// SetSpeed writes the current time-scale factor. Takes effect on the next
// frame boundary; in-flight state (tail, next ideal offset, ring) is not
// reset, per spec.md §4.6.
func (e *Engine) SetSpeed(speed float64) {
	e.speed = speed
}

// Speed returns the current time-scale factor.
func (e *Engine) Speed() float64 { return e.speed }

// OutputSamplesTotal returns the monotone diagnostics counter of spec.md §3.
func (e *Engine) OutputSamplesTotal() int64 { return e.outputSamplesTotal }

// unityEpsilon is the tolerance used to detect the speed=1.0 fast path,
// per spec.md §4.5.
const unityEpsilon = 1e-6

// effectiveSynthesisHop computes H_s_eff = round(H_a / speed),
// floor-clamped to 1.
func (e *Engine) effectiveSynthesisHop() int {
	h := int(math.Round(float64(e.hopAnalysis) / e.speed))
	if h < 1 {
		h = 1
	}
	return h
}

// Process implements spec.md §4.5. It appends input to the ring, then
// produces up to maxOutput samples into the returned slice.
func (e *Engine) Process(input []int16, maxOutput int) []int16 {
	e.r.append(input)

	if math.Abs(e.speed-1.0) < unityEpsilon {
		return e.processFastPath(input, maxOutput)
	}

	hopSynthEff := e.effectiveSynthesisHop()
	// synthesize always emits the N_o overlap-add head, so one frame's
	// output is max(N_o, H_s_eff) samples.
	frameOut := max(hopSynthEff, e.overlap)
	out := make([]int16, 0, maxOutput)

	for len(out)+frameOut <= maxOutput {
		// The search span is clipped at offset 0: the ring never holds
		// samples before the start of the stream.
		lo := max(e.nextIdealOffset-int64(e.searchHalf), 0)
		hi := e.nextIdealOffset + int64(e.n) + int64(e.searchHalf)
		if lo < e.r.baseOffset || hi > e.r.end() {
			break
		}

		res := search(e.r, e.tail, e.nextIdealOffset, e.searchHalf, !e.emittedAnyFrame)
		if !res.found {
			e.logger.Warn("wsola: segment fetch failure aborting frame",
				"next_ideal_offset", e.nextIdealOffset)
			break
		}

		startAbs := e.nextIdealOffset + int64(res.delta)
		frame, ok := e.r.readSegment(startAbs, e.n)
		if !ok {
			e.logger.Warn("wsola: segment fetch failure aborting frame",
				"start_abs", startAbs, "n", e.n)
			break
		}

		synth := synthesize(frame, e.tail, e.window, e.overlap, e.hopAnalysis, hopSynthEff)
		out = append(out, synth.output...)
		e.tail = synth.tail
		e.emittedAnyFrame = true

		e.nextIdealOffset += int64(e.hopAnalysis)
		e.outputSamplesTotal += int64(len(synth.output))

		e.prune()
	}

	e.prune()
	return out
}

// processFastPath implements spec.md §4.5 step 2: at unity speed, pass
// input straight through while still advancing the timeline and pruning.
func (e *Engine) processFastPath(input []int16, maxOutput int) []int16 {
	n := len(input)
	if n > maxOutput {
		n = maxOutput
	}
	out := make([]int16, n)
	copy(out, input[:n])

	e.nextIdealOffset += int64(len(input))
	e.outputSamplesTotal += int64(n)

	e.prune()
	return out
}

// prune implements the discard formula of spec.md §4.5 step 4/5:
// min_retain = max(0, next_ideal_offset - S_w - N_o).
func (e *Engine) prune() {
	minRetain := e.nextIdealOffset - int64(e.searchHalf) - int64(e.overlap)
	if minRetain < 0 {
		minRetain = 0
	}
	e.r.discardTo(minRetain)
}
