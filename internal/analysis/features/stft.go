package features

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/farcloser/strophe/internal/types"
)

// spectrogram computes Hann-windowed magnitude spectra, one row per frame,
// window/2+1 bins each.
func spectrogram(samples []float64, spec types.FrameSpec) [][]float64 {
	frames := spec.Frames(len(samples))
	binCount := spec.WindowSize/2 + 1

	window := makeHannWindow(spec.WindowSize)
	fft := fourier.NewFFT(spec.WindowSize)
	fftIn := make([]float64, spec.WindowSize)

	magnitudes := make([][]float64, frames)

	for f := range frames {
		start := f * spec.HopLength

		for i := range fftIn {
			fftIn[i] = samples[start+i] * window[i]
		}

		coeffs := fft.Coefficients(nil, fftIn)

		magnitudes[f] = make([]float64, binCount)
		for i, c := range coeffs {
			magnitudes[f][i] = math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
		}
	}

	return magnitudes
}

func makeHannWindow(size int) []float64 {
	window := make([]float64, size)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}

	return window
}
