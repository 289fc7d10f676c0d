// Package spectrum provides FFT-adjacent spectrum-domain utilities.
//
// The package intentionally does not implement FFT itself. It operates on
// complex spectrum bins produced by external FFT backends and provides
// SIMD-accelerated magnitude extraction used by spectral verification code.
package spectrum
