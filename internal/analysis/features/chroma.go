package features

import (
	"math"

	"github.com/farcloser/strophe/internal/types"
)

const referenceA4 = 440.0

// chromaBinMap precomputes the pitch class of every FFT bin (-1 for bins
// without a usable frequency).
func chromaBinMap(binCount, windowSize, sampleRate int) []int {
	classes := make([]int, binCount)

	for k := range binCount {
		freq := float64(k) * float64(sampleRate) / float64(windowSize)
		if freq < 20 { // below audible pitch, skip DC and rumble bins
			classes[k] = -1

			continue
		}

		// MIDI note number, folded to a pitch class.
		note := int(math.Round(12*math.Log2(freq/referenceA4))) + 69
		classes[k] = ((note % types.ChromaBins) + types.ChromaBins) % types.ChromaBins
	}

	return classes
}

// chromaFrame accumulates spectral power per pitch class, normalized by the
// frame's strongest class so every frame lands in [0, 1]. Silent frames stay
// all-zero.
func chromaFrame(spectrum []float64, classes []int, out []float64) {
	for i := range out {
		out[i] = 0
	}

	for k, class := range classes {
		if class < 0 {
			continue
		}

		out[class] += spectrum[k] * spectrum[k]
	}

	var peak float64
	for _, v := range out {
		if v > peak {
			peak = v
		}
	}

	if peak == 0 {
		return
	}

	for i := range out {
		out[i] /= peak
	}
}

// tonnetzFrame projects a chroma vector onto the 6-dimensional tonal
// centroid space (perfect-fifth, minor-third and major-third circles, the
// last at half radius), using L1-normalized chroma.
func tonnetzFrame(chroma []float64, out []float64) {
	var total float64
	for _, v := range chroma {
		total += v
	}

	for i := range out {
		out[i] = 0
	}

	if total == 0 {
		return
	}

	for j, v := range chroma {
		c := v / total
		angle := float64(j)

		out[0] += c * math.Sin(math.Pi*7.0/6.0*angle)
		out[1] += c * math.Cos(math.Pi*7.0/6.0*angle)
		out[2] += c * math.Sin(math.Pi*3.0/2.0*angle)
		out[3] += c * math.Cos(math.Pi*3.0/2.0*angle)
		out[4] += c * 0.5 * math.Sin(math.Pi*2.0/3.0*angle)
		out[5] += c * 0.5 * math.Cos(math.Pi*2.0/3.0*angle)
	}
}
