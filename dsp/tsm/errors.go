package tsm

import "errors"

var (
	// ErrInvalidChannels indicates a channel count outside [1, maxChannels].
	ErrInvalidChannels = errors.New("tsm: channels must be in [1, 8]")
	// ErrInvalidSampleRate indicates a non-positive or non-finite sample rate.
	ErrInvalidSampleRate = errors.New("tsm: sample rate must be positive")
	// ErrInvalidPlaybackRange indicates MinPlaybackRate >= MaxPlaybackRate.
	ErrInvalidPlaybackRange = errors.New("tsm: min playback rate must be less than max playback rate")
	// ErrInvalidWindowSize indicates the derived OLA window size collapsed below 2 frames.
	ErrInvalidWindowSize = errors.New("tsm: derived OLA window size must be >= 2 frames")
	// ErrInvalidSearchInterval indicates the derived candidate count collapsed below 1.
	ErrInvalidSearchInterval = errors.New("tsm: derived search interval must be >= 1 candidate")
)
