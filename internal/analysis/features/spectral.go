package features

import "math"

// rolloffFraction is the share of cumulative spectral energy below the
// reported rolloff frequency.
const rolloffFraction = 0.85

// spectralCentroid is the magnitude-weighted mean frequency of one spectrum.
func spectralCentroid(spectrum []float64, binHz float64) float64 {
	var weightedSum, total float64

	for i, mag := range spectrum {
		weightedSum += float64(i) * binHz * mag
		total += mag
	}

	if total == 0 {
		return 0
	}

	return weightedSum / total
}

// spectralRolloff is the frequency below which rolloffFraction of the
// spectrum's energy lies.
func spectralRolloff(spectrum []float64, binHz float64) float64 {
	var total float64
	for _, mag := range spectrum {
		total += mag * mag
	}

	if total == 0 {
		return 0
	}

	target := rolloffFraction * total

	var cum float64

	for i, mag := range spectrum {
		cum += mag * mag
		if cum >= target {
			return float64(i) * binHz
		}
	}

	return float64(len(spectrum)-1) * binHz
}

// spectralBandwidth is the magnitude-weighted standard deviation of frequency
// around the centroid.
func spectralBandwidth(spectrum []float64, binHz, centroid float64) float64 {
	var weightedSum, total float64

	for i, mag := range spectrum {
		d := float64(i)*binHz - centroid
		weightedSum += mag * d * d
		total += mag
	}

	if total == 0 {
		return 0
	}

	return math.Sqrt(weightedSum / total)
}

// zeroCrossingRate is the fraction of adjacent sample pairs in the frame
// whose signs differ.
func zeroCrossingRate(frame []float64) float64 {
	if len(frame) < 2 {
		return 0
	}

	crossings := 0

	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0) != (frame[i] >= 0) {
			crossings++
		}
	}

	return float64(crossings) / float64(len(frame))
}

func frameRMS(frame []float64) float64 {
	var sum float64
	for _, s := range frame {
		sum += s * s
	}

	return math.Sqrt(sum / float64(len(frame)))
}
