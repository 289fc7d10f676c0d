// Package tsm provides a real-time time-scale modification (TSM) engine.
//
// Engine changes the playback tempo of a planar float32 audio stream
// without altering its pitch, using a Waveform-Similarity-based
// Overlap-Add (WSOLA) algorithm: an input buffer feeds a target/search
// block extractor, an energy-normalized cross-correlation search picks
// the best-matching sub-block, and a Hann-windowed overlap-add
// synthesizer stitches the result together while a fractional clock
// keeps the output locked to the input timeline.
//
// The engine is synchronous and single-threaded; it performs no I/O,
// resampling, or pitch shifting of its own. Callers push input frames,
// pull time-scaled output frames, and may change the playback rate
// between any two calls.
package tsm
