package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT transforms a real series. Input that is not a power of two long is
// zero padded so bin spacing stays 1/(N*dt) with N a power of two.
func FFT(data []float64) []complex128 {
	if len(data) == 0 {
		return []complex128{}
	}
	if size := nextPow2(len(data)); size != len(data) {
		padded := make([]float64, size)
		copy(padded, data)
		data = padded
	}
	return fft.FFTReal(data)
}

func nextPow2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

func PowerSpectrum(data []float64) []float64 {
	bins := FFT(data)
	ps := make([]float64, len(bins)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}

	return ps
}

// DominantFrequency returns the strongest non-DC frequency, in Hz, of a
// series sampled every dt seconds. The mean is removed first.
func DominantFrequency(data []float64, dt float64) float64 {
	if len(data) < 4 || dt <= 0 {
		return 0
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[best] || best == 0 {
			best = i
		}
	}
	if best == 0 {
		return 0
	}

	n := nextPow2(len(data))
	return float64(best) / (float64(n) * dt)
}
