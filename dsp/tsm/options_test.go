package tsm

import "testing"

func TestOptionsDefaults(t *testing.T) {
	e, err := NewEngine(1, 48000)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if e.minPlaybackRate != DefaultMinPlaybackRate {
		t.Fatalf("minPlaybackRate = %v, want %v", e.minPlaybackRate, DefaultMinPlaybackRate)
	}
	if e.maxPlaybackRate != DefaultMaxPlaybackRate {
		t.Fatalf("maxPlaybackRate = %v, want %v", e.maxPlaybackRate, DefaultMaxPlaybackRate)
	}
}

func TestWithPlaybackRateRange(t *testing.T) {
	e, err := NewEngine(1, 48000, WithPlaybackRateRange(0.5, 2.0))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if e.minPlaybackRate != 0.5 || e.maxPlaybackRate != 2.0 {
		t.Fatalf("got [%v,%v], want [0.5,2.0]", e.minPlaybackRate, e.maxPlaybackRate)
	}
}

func TestWithOLAWindowSizeMs(t *testing.T) {
	e, err := NewEngine(1, 48000, WithOLAWindowSizeMs(10))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	want := roundEvenAtLeast2(10 * 48000.0 / 1000)
	if e.olaWindowSize != want {
		t.Fatalf("olaWindowSize = %d, want %d", e.olaWindowSize, want)
	}
}

func TestWithSearchIntervalMs(t *testing.T) {
	e, err := NewEngine(1, 48000, WithSearchIntervalMs(15))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	want := roundOddAtLeast1(15 * 48000.0 / 1000)
	if e.numCandidateBlocks != want {
		t.Fatalf("numCandidateBlocks = %d, want %d", e.numCandidateBlocks, want)
	}
}

func TestOptionsIgnoreInvalidOverrides(t *testing.T) {
	e, err := NewEngine(1, 48000, WithOLAWindowSizeMs(-5), WithSearchIntervalMs(0))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	want := roundEvenAtLeast2(DefaultOLAWindowSizeMs * 48000.0 / 1000)
	if e.olaWindowSize != want {
		t.Fatalf("olaWindowSize = %d, want default-derived %d", e.olaWindowSize, want)
	}
}
