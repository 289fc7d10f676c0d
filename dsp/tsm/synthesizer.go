package tsm

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
)

// runIteration performs one WSOLA iteration, producing exactly olaHopSize
// additional complete output frames in wsolaOutput. It reports false
// without mutating any committed state when the search block would reach
// input the engine does not yet have and the stream has not been finalized
// (the caller should request more input via Push and retry), or when the
// stream is finalized and the target block has moved entirely past the
// last real input frame (there is nothing left to drain).
func (e *Engine) runIteration(rate float64) bool {
	e.searchBlockIndex = int(math.Round(e.outputTime)) - e.searchBlockCenterOffset
	e.targetBlockIndex = e.searchBlockIndex + (e.numCandidateBlocks-1)/2

	if e.isFinal && e.targetBlockIndex >= e.input.Frames() {
		return false
	}

	needed := e.searchBlockIndex + e.searchBlockSize
	if needed > e.input.Frames() {
		if !e.isFinal {
			return false
		}
		pad := needed - e.input.Frames()
		e.inputAddedSilence += pad
		if e.inputFinalFrames < e.inputAddedSilence {
			e.inputFinalFrames = e.inputAddedSilence
		}
	}

	e.extractTargetBlock()
	e.extractSearchBlock()

	// The fractional vertex is discarded: the clock advances by a fixed
	// hop regardless of search quality (see DESIGN.md Open Question 1).
	best, _ := e.similaritySearch()
	e.candidateBlock(best, e.optimalBlock)

	for c := range e.optimalBlock {
		ob := e.optimalBlock[c]
		tb := e.targetBlock[c]
		tw := e.transitionWindow
		for k := range ob {
			ob[k] = tw[k]*tb[k] + (1-tw[k])*ob[k]
		}
	}

	e.overlapAdd()

	e.outputTime += float64(e.olaHopSize) * rate

	e.evictConsumed()

	return true
}

// overlapAdd windows optimalBlock and folds it into wsolaOutput. The first
// call after Reset seeds the accumulator directly; later calls complete the
// carried-over tail with the new block's leading half and lay down a fresh
// tail from its trailing half. Pull always fully drains wsolaOutput before
// the next iteration runs, so numCompleteFrames is 0 on entry here and
// olaHopSize on return in both branches.
func (e *Engine) overlapAdd() {
	w := e.olaWindowSize
	h := e.olaHopSize
	win := e.olaWindow

	if !e.wsolaOutputStarted {
		for c := range e.wsolaOutput {
			buf := e.wsolaOutput[c]
			ob := e.optimalBlock[c]
			for k := 0; k < w; k++ {
				buf[k] = win[k] * ob[k]
			}
			for k := w; k < w+h; k++ {
				buf[k] = 0
			}
		}
		e.wsolaOutputStarted = true
		e.numCompleteFrames = h
		return
	}

	for c := range e.wsolaOutput {
		buf := e.wsolaOutput[c]
		ob := e.optimalBlock[c]
		for k := 0; k < h; k++ {
			buf[k] = core.FlushDenormals(buf[k] + win[k+h]*ob[k])
		}
		for k := h; k < w; k++ {
			buf[k] = win[k-h] * ob[k]
		}
	}
	e.numCompleteFrames = h
}

// evictConsumed drops input frames that no future iteration can still
// need and re-bases every index and the fractional clock by the same
// amount, keeping search/target indices from growing unbounded.
func (e *Engine) evictConsumed() {
	evict := e.searchBlockIndex
	if e.targetBlockIndex < evict {
		evict = e.targetBlockIndex
	}
	if evict <= 0 {
		return
	}

	e.input.Evict(evict)
	e.searchBlockIndex -= evict
	e.targetBlockIndex -= evict
	e.outputTime -= float64(evict)
}

// shiftOutput drains k frames from the front of wsolaOutput, shifting the
// remaining carried-over tail forward and zeroing the newly exposed tail.
func (e *Engine) shiftOutput(k int) {
	if k <= 0 {
		return
	}

	total := e.olaWindowSize + e.olaHopSize
	for c := range e.wsolaOutput {
		buf := e.wsolaOutput[c]
		copy(buf[:total-k], buf[k:total])
		for i := total - k; i < total; i++ {
			buf[i] = 0
		}
	}
	e.numCompleteFrames -= k
}
