package tsm

const (
	// DefaultMinPlaybackRate is the lower bound of the un-muted rate range.
	DefaultMinPlaybackRate = 0.25
	// DefaultMaxPlaybackRate is the upper bound of the un-muted rate range.
	DefaultMaxPlaybackRate = 4.0
	// DefaultOLAWindowSizeMs is the default OLA window length in milliseconds.
	DefaultOLAWindowSizeMs = 20.0
	// DefaultWSOLASearchIntervalMs is the default symmetric search span in milliseconds.
	DefaultWSOLASearchIntervalMs = 30.0

	maxChannels = 8

	// rateIdentityEps is the tolerance around 1.0 treated as exact passthrough.
	rateIdentityEps = 1e-6
	// energyEps guards the similarity-search denominator against divide-by-zero.
	energyEps = 1e-9
)

// Options holds the engine's immutable construction-time configuration.
type Options struct {
	MinPlaybackRate       float64
	MaxPlaybackRate       float64
	OLAWindowSizeMs       float64
	WSOLASearchIntervalMs float64
}

// Option configures an Engine at construction time.
type Option func(*Options)

// WithPlaybackRateRange overrides the un-muted playback rate range.
// Rates outside [min, max] are muted rather than time-scaled. NewEngine
// rejects a range with min <= 0 or max <= min with ErrInvalidPlaybackRange.
func WithPlaybackRateRange(min, max float64) Option {
	return func(o *Options) {
		o.MinPlaybackRate = min
		o.MaxPlaybackRate = max
	}
}

// WithOLAWindowSizeMs overrides the OLA window length in milliseconds.
func WithOLAWindowSizeMs(ms float64) Option {
	return func(o *Options) {
		if ms > 0 {
			o.OLAWindowSizeMs = ms
		}
	}
}

// WithSearchIntervalMs overrides the symmetric similarity-search span in
// milliseconds. The candidate offsets cover this span in total, centered
// on the target block position.
func WithSearchIntervalMs(ms float64) Option {
	return func(o *Options) {
		if ms > 0 {
			o.WSOLASearchIntervalMs = ms
		}
	}
}

func defaultOptions() Options {
	return Options{
		MinPlaybackRate:       DefaultMinPlaybackRate,
		MaxPlaybackRate:       DefaultMaxPlaybackRate,
		OLAWindowSizeMs:       DefaultOLAWindowSizeMs,
		WSOLASearchIntervalMs: DefaultWSOLASearchIntervalMs,
	}
}
