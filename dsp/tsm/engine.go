package tsm

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/window"
)

// Engine is a stateful WSOLA time-scale modification processor for one
// planar audio stream. It is synchronous and single-threaded; callers
// needing concurrent access must serialize it themselves.
type Engine struct {
	channels   int
	sampleRate int

	minPlaybackRate float64
	maxPlaybackRate float64

	olaWindowSize           int
	olaHopSize              int
	numCandidateBlocks      int
	searchBlockSize         int
	searchBlockCenterOffset int

	olaWindow        []float64
	transitionWindow []float64

	input *inputBuffer

	targetBlock  [][]float64
	searchBlock  [][]float64
	optimalBlock [][]float64

	wsolaOutput        [][]float64
	numCompleteFrames  int
	wsolaOutputStarted bool

	outputTime       float64
	searchBlockIndex int
	targetBlockIndex int

	mutedPartialFrame float64

	isFinal           bool
	inputFinalFrames  int
	inputAddedSilence int

	energyCandidateBlocks [][]float64
	targetEnergyScratch   []float64
	scoreScratch          []float64
}

// NewEngine constructs an Engine for the given channel count and sample
// rate. channels must be in [1, 8] and sampleRate must be positive;
// otherwise NewEngine returns a non-nil error and a nil *Engine.
func NewEngine(channels, sampleRate int, opts ...Option) (*Engine, error) {
	if channels < 1 || channels > maxChannels {
		return nil, ErrInvalidChannels
	}
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	cfg := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.MinPlaybackRate <= 0 || cfg.MaxPlaybackRate <= cfg.MinPlaybackRate {
		return nil, ErrInvalidPlaybackRange
	}

	olaWindowSize := roundEvenAtLeast2(cfg.OLAWindowSizeMs * float64(sampleRate) / 1000)
	if olaWindowSize < 2 {
		return nil, ErrInvalidWindowSize
	}
	numCandidateBlocks := roundOddAtLeast1(cfg.WSOLASearchIntervalMs * float64(sampleRate) / 1000)
	if numCandidateBlocks < 1 {
		return nil, ErrInvalidSearchInterval
	}

	hopSize := olaWindowSize / 2
	searchBlockSize := numCandidateBlocks + olaWindowSize - 1

	e := &Engine{
		channels:   channels,
		sampleRate: sampleRate,

		minPlaybackRate: cfg.MinPlaybackRate,
		maxPlaybackRate: cfg.MaxPlaybackRate,

		olaWindowSize:           olaWindowSize,
		olaHopSize:              hopSize,
		numCandidateBlocks:      numCandidateBlocks,
		searchBlockSize:         searchBlockSize,
		searchBlockCenterOffset: (numCandidateBlocks-1)/2 + (olaWindowSize-1)/2,

		olaWindow:        window.Generate(window.TypeHann, olaWindowSize),
		transitionWindow: window.Generate(window.TypeTriangle, olaWindowSize),

		input: newInputBuffer(channels),

		targetBlock:           allocPlanar(channels, olaWindowSize),
		searchBlock:           allocPlanar(channels, searchBlockSize),
		optimalBlock:          allocPlanar(channels, olaWindowSize),
		wsolaOutput:           allocPlanar(channels, olaWindowSize+hopSize),
		energyCandidateBlocks: allocPlanar(channels, numCandidateBlocks),

		targetEnergyScratch: make([]float64, channels),
		scoreScratch:        make([]float64, numCandidateBlocks),
	}
	e.resetIndices()

	return e, nil
}

// Channels returns the configured channel count.
func (e *Engine) Channels() int { return e.channels }

// SampleRate returns the configured sample rate in Hz.
func (e *Engine) SampleRate() int { return e.sampleRate }

// Push appends up to len(planes[0]) frames of planar audio to the input
// buffer and returns how many frames were actually consumed. Once
// SetFinal has been called, Push refuses further input and returns 0.
func (e *Engine) Push(planes [][]float32, rate float64) int {
	_ = rate // rate does not affect buffering; it only gates Pull's regime.

	if e.isFinal {
		return 0
	}

	n := e.validatePlanes32(planes, "push")
	if n == 0 {
		return 0
	}

	return e.input.Append(planes, n)
}

// Pull produces up to len(dest[0]) frames of time-scaled planar audio and
// returns how many frames were actually produced. Rates outside
// [MinPlaybackRate, MaxPlaybackRate] mute the output while still consuming
// input at rate; rates within rateIdentityEps of 1.0 pass input through
// verbatim; all other rates run the WSOLA synthesizer.
func (e *Engine) Pull(dest [][]float32, rate float64) int {
	n := e.validatePlanes32(dest, "pull")
	if n == 0 {
		return 0
	}

	switch {
	case rate < e.minPlaybackRate || rate > e.maxPlaybackRate:
		return e.pullMuted(dest, n, rate)
	case core.NearlyEqual(rate, 1.0, rateIdentityEps):
		return e.pullPassthrough(dest, n)
	default:
		return e.pullWSOLA(dest, n, rate)
	}
}

func (e *Engine) pullMuted(dest [][]float32, n int, rate float64) int {
	for c := range dest {
		d := dest[c][:n]
		for i := range d {
			d[i] = 0
		}
	}

	debt := e.mutedPartialFrame + float64(n)*rate
	consume := int(math.Floor(debt))
	if consume < 0 {
		consume = 0
	}
	if avail := e.input.Frames(); consume > avail {
		consume = avail
	}
	e.mutedPartialFrame = debt - float64(consume)
	e.input.Evict(consume)

	return n
}

func (e *Engine) pullPassthrough(dest [][]float32, n int) int {
	produced := n
	if avail := e.input.Frames(); produced > avail {
		produced = avail
	}

	for c := range dest {
		src := e.input.planes[c].Samples()
		d := dest[c]
		for i := 0; i < produced; i++ {
			d[i] = float32(src[i])
		}
	}
	e.input.Evict(produced)

	return produced
}

func (e *Engine) pullWSOLA(dest [][]float32, n int, rate float64) int {
	produced := 0

	for produced < n {
		if e.numCompleteFrames == 0 && !e.runIteration(rate) {
			break
		}
		if e.numCompleteFrames == 0 {
			break
		}

		take := n - produced
		if take > e.numCompleteFrames {
			take = e.numCompleteFrames
		}

		for c := range dest {
			d := dest[c]
			buf := e.wsolaOutput[c]
			for i := 0; i < take; i++ {
				d[produced+i] = float32(buf[i])
			}
		}
		e.shiftOutput(take)
		produced += take
	}

	return produced
}

// SetFinal marks the input stream as closed. Subsequent WSOLA iterations
// that would otherwise block on missing input instead zero-pad the tail so
// the final partial window can complete. Idempotent.
func (e *Engine) SetFinal() {
	e.isFinal = true
}

// FramesAvailable reports whether a subsequent Pull with a reasonable
// capacity would produce at least one frame at the given rate.
func (e *Engine) FramesAvailable(rate float64) bool {
	if e.numCompleteFrames > 0 {
		return true
	}

	switch {
	case rate < e.minPlaybackRate || rate > e.maxPlaybackRate:
		return true
	case core.NearlyEqual(rate, 1.0, rateIdentityEps):
		return e.input.Frames() > 0
	default:
		searchIdx := int(math.Round(e.outputTime)) - e.searchBlockCenterOffset
		targetIdx := searchIdx + (e.numCandidateBlocks-1)/2
		if e.isFinal && targetIdx >= e.input.Frames() {
			return false
		}
		needed := searchIdx + e.searchBlockSize
		if needed <= e.input.Frames() {
			return true
		}
		return e.isFinal
	}
}

// Latency returns the number of input frames the engine currently holds,
// expressed in the input timeline. In the WSOLA regime this count includes
// frames that earlier iterations have already read but that are still
// buffered for the next search block. rate is not used.
func (e *Engine) Latency(rate float64) float64 {
	_ = rate
	return float64(e.input.Frames())
}

// Reset discards all buffered audio and returns the engine to the
// just-constructed state. Allocations are retained.
func (e *Engine) Reset() {
	e.input.Reset()

	e.numCompleteFrames = 0
	e.wsolaOutputStarted = false
	e.outputTime = 0
	e.mutedPartialFrame = 0
	e.isFinal = false
	e.inputFinalFrames = 0
	e.inputAddedSilence = 0

	for c := range e.wsolaOutput {
		buf := e.wsolaOutput[c]
		for i := range buf {
			buf[i] = 0
		}
	}

	e.resetIndices()
}

func (e *Engine) resetIndices() {
	e.searchBlockIndex = int(math.Round(e.outputTime)) - e.searchBlockCenterOffset
	e.targetBlockIndex = e.searchBlockIndex + (e.numCandidateBlocks-1)/2
}

// validatePlanes32 checks that planes has exactly e.channels slices, all of
// equal length, and returns that length (0 for an empty call). Mismatched
// channel counts or ragged plane lengths are programming contract
// violations and panic rather than returning an error.
func (e *Engine) validatePlanes32(planes [][]float32, op string) int {
	if len(planes) != e.channels {
		panic(fmt.Sprintf("tsm: %s expects %d channel planes, got %d", op, e.channels, len(planes)))
	}

	n := len(planes[0])
	for _, p := range planes {
		if len(p) != n {
			panic(fmt.Sprintf("tsm: %s planes must all have equal length", op))
		}
	}
	return n
}

func allocPlanar(channels, length int) [][]float64 {
	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, length)
	}
	return out
}

func roundEvenAtLeast2(x float64) int {
	n := int(math.Round(x))
	if n < 2 {
		n = 2
	}
	if n%2 != 0 {
		n++
	}
	return n
}

func roundOddAtLeast1(x float64) int {
	n := int(math.Round(x))
	if n < 1 {
		n = 1
	}
	if n%2 == 0 {
		n++
	}
	return n
}
