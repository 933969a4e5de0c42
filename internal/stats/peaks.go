package stats

import "sort"

// Peak is a local maximum with its prominence (how far the signal has to
// drop on both sides before climbing above the peak again).
type Peak struct {
	Index      int
	Height     float64
	Prominence float64
}

// FindPeaks locates local maxima of x that satisfy all three constraints:
// height >= minHeight, prominence >= minProminence, and at least minDistance
// samples from any taller accepted peak. When two candidates compete within
// minDistance the taller one wins. Results are sorted by index.
func FindPeaks(x []float64, minHeight float64, minDistance int, minProminence float64) []Peak {
	candidates := localMaxima(x)

	peaks := make([]Peak, 0, len(candidates))

	for _, idx := range candidates {
		if x[idx] < minHeight {
			continue
		}

		prom := prominence(x, idx)
		if prom < minProminence {
			continue
		}

		peaks = append(peaks, Peak{Index: idx, Height: x[idx], Prominence: prom})
	}

	if minDistance > 1 {
		peaks = enforceDistance(peaks, minDistance)
	}

	sort.Slice(peaks, func(i, j int) bool { return peaks[i].Index < peaks[j].Index })

	return peaks
}

// localMaxima returns indices of strict local maxima. Plateaus count once,
// at their midpoint.
func localMaxima(x []float64) []int {
	var maxima []int

	i := 1
	for i < len(x)-1 {
		if x[i] <= x[i-1] {
			i++
			continue
		}

		// Rising edge found; scan across any plateau.
		j := i
		for j < len(x)-1 && x[j+1] == x[i] {
			j++
		}

		if j < len(x)-1 && x[j+1] < x[i] {
			maxima = append(maxima, (i+j)/2)
		}

		i = j + 1
	}

	return maxima
}

// prominence measures how much a peak stands out: walk outward in each
// direction until the signal exceeds the peak (or the edge), take the lowest
// point seen on each side, and subtract the higher of the two bases.
func prominence(x []float64, peak int) float64 {
	leftBase := x[peak]
	for i := peak - 1; i >= 0; i-- {
		if x[i] > x[peak] {
			break
		}

		if x[i] < leftBase {
			leftBase = x[i]
		}
	}

	rightBase := x[peak]
	for i := peak + 1; i < len(x); i++ {
		if x[i] > x[peak] {
			break
		}

		if x[i] < rightBase {
			rightBase = x[i]
		}
	}

	return x[peak] - max(leftBase, rightBase)
}

// enforceDistance keeps the tallest peaks first and drops any remaining peak
// closer than minDistance to one already kept.
func enforceDistance(peaks []Peak, minDistance int) []Peak {
	byHeight := make([]Peak, len(peaks))
	copy(byHeight, peaks)
	sort.Slice(byHeight, func(i, j int) bool { return byHeight[i].Height > byHeight[j].Height })

	kept := make([]Peak, 0, len(byHeight))

	for _, p := range byHeight {
		ok := true

		for _, k := range kept {
			if abs(p.Index-k.Index) < minDistance {
				ok = false

				break
			}
		}

		if ok {
			kept = append(kept, p)
		}
	}

	return kept
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
