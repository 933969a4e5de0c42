package features

import "math"

// melBands is the filterbank resolution feeding the cepstral transform.
const melBands = 26

const logFloor = 1e-10

func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// melFilterbank builds melBands triangular filters spanning 0..sampleRate/2,
// each row holding per-bin weights.
func melFilterbank(binCount, windowSize, sampleRate int) [][]float64 {
	maxMel := hzToMel(float64(sampleRate) / 2)

	// Band edges: melBands+2 points evenly spaced on the mel scale.
	edges := make([]float64, melBands+2)
	for i := range edges {
		hz := melToHz(maxMel * float64(i) / float64(melBands+1))
		edges[i] = hz * float64(windowSize) / float64(sampleRate)
	}

	bank := make([][]float64, melBands)

	for m := range melBands {
		bank[m] = make([]float64, binCount)

		left, center, right := edges[m], edges[m+1], edges[m+2]

		for k := range binCount {
			bin := float64(k)

			switch {
			case bin > left && bin <= center && center > left:
				bank[m][k] = (bin - left) / (center - left)
			case bin > center && bin < right && right > center:
				bank[m][k] = (right - bin) / (right - center)
			}
		}
	}

	return bank
}

// mfccFrame computes the first types.MFCCCount cepstral coefficients of one
// magnitude spectrum via log mel energies and an orthonormal DCT-II.
func mfccFrame(spectrum []float64, bank [][]float64, out []float64) {
	logEnergies := make([]float64, len(bank))

	for m, filter := range bank {
		var energy float64
		for k, w := range filter {
			if w > 0 {
				energy += w * spectrum[k] * spectrum[k]
			}
		}

		logEnergies[m] = math.Log(energy + logFloor)
	}

	n := float64(len(logEnergies))

	for c := range out {
		var sum float64
		for m, e := range logEnergies {
			sum += e * math.Cos(math.Pi*float64(c)*(float64(m)+0.5)/n)
		}

		scale := math.Sqrt(2 / n)
		if c == 0 {
			scale = math.Sqrt(1 / n)
		}

		out[c] = scale * sum
	}
}
