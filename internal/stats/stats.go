// Package stats provides the robust statistics and signal-shaping primitives
// shared by the analysis packages.
package stats

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// madScale converts a median absolute deviation into a consistent estimator
// of the standard deviation for normally distributed data.
const madScale = 1.4826

// Median returns the middle value of x (midpoint-averaged for even lengths).
func Median(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	sorted := slices.Clone(x)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}

	return sorted[mid]
}

// MAD returns the median absolute deviation of x around its median.
func MAD(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	med := Median(x)

	dev := make([]float64, len(x))
	for i, v := range x {
		dev[i] = math.Abs(v - med)
	}

	return Median(dev)
}

// RobustZScore normalizes x with a modified z-score: (x - median) /
// (1.4826*MAD + eps). Preferred over mean/std here because energy
// distributions are heavy-tailed and a handful of loud transients would
// otherwise dominate the scale.
func RobustZScore(x []float64) []float64 {
	const eps = 1e-10

	med := Median(x)
	scale := madScale*MAD(x) + eps

	z := make([]float64, len(x))
	for i, v := range x {
		z[i] = (v - med) / scale
	}

	return z
}

// MADSigma returns the MAD of x rescaled to standard-deviation units.
func MADSigma(x []float64) float64 {
	return madScale * MAD(x)
}

// Mean returns the arithmetic mean of x (0 for empty input).
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	return stat.Mean(x, nil)
}

// PopStdDev returns the population standard deviation of x.
func PopStdDev(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}

	return stat.PopStdDev(x, nil)
}

// Percentile returns the p-th percentile (0-1) of x, empirical convention.
func Percentile(x []float64, p float64) float64 {
	if len(x) == 0 {
		return 0
	}

	sorted := slices.Clone(x)
	sort.Float64s(sorted)

	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// MovingAverage returns the centered moving average of x with the given
// window (frames). Edges shrink the window to the available range rather
// than zero-padding, so the ends of the series do not dip artificially.
func MovingAverage(x []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}

	out := make([]float64, len(x))
	half := window / 2

	for i := range x {
		lo := max(i-half, 0)
		hi := min(i+half+1, len(x))

		var sum float64
		for j := lo; j < hi; j++ {
			sum += x[j]
		}

		out[i] = sum / float64(hi-lo)
	}

	return out
}

// GaussianSmooth convolves x with a normalized Gaussian kernel of the given
// sigma (frames), using reflect padding at the edges.
func GaussianSmooth(x []float64, sigma float64) []float64 {
	if len(x) == 0 || sigma <= 0 {
		return slices.Clone(x)
	}

	radius := int(math.Ceil(4 * sigma))

	kernel := make([]float64, 2*radius+1)

	var kernelSum float64

	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		kernelSum += kernel[i]
	}

	for i := range kernel {
		kernel[i] /= kernelSum
	}

	out := make([]float64, len(x))

	for i := range x {
		var sum float64

		for k, w := range kernel {
			j := i + k - radius
			// Reflect out-of-range indices back into the series.
			if j < 0 {
				j = -j - 1
			}

			if j >= len(x) {
				j = 2*len(x) - j - 1
			}

			if j < 0 {
				j = 0
			}

			if j >= len(x) {
				j = len(x) - 1
			}

			sum += w * x[j]
		}

		out[i] = sum
	}

	return out
}
