package window

import "math"

// Type identifies a window function.
type Type int

const (
	TypeHann Type = iota
	TypeTriangle
)

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

func defaultConfig() config {
	return config{}
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// hannCoeffs are the two-term cosine coefficients for the raised-cosine
// (Hann) window: w(x) = 0.5 - 0.5*cos(2*pi*x).
var hannCoeffs = []float64{0.5, -0.5}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		x := samplePosition(i, length, cfg.periodic)
		out[i] = evalWindow(t, x)
	}

	return out
}

func evalWindow(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeTriangle:
		return triangleAt(x)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}

func triangleAt(x float64) float64 {
	if x <= 0.5 {
		return 2 * x
	}

	return 2 * (1 - x)
}
