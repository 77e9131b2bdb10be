package game

import (
	"fmt"
	"math"
)

// DefaultBinCount is the histogram resolution used when none is given.
const DefaultBinCount = 50

// Summarize bins the trial lengths into binCount equal-width buckets
// spanning [min, max] and computes the mean. The last bucket is closed on
// the right. When every trial has the same length the range is widened to
// [v-0.5, v+0.5].
func Summarize(result TrialResult, binCount int) RunSummary {
	if binCount <= 0 {
		binCount = DefaultBinCount
	}

	summary := RunSummary{
		Counts:    make([]int, binCount),
		Edges:     make([]float64, binCount+1),
		Trials:    len(result.Lengths),
		Exhausted: result.Exhausted,
	}

	lo, hi := 0.0, 1.0
	if len(result.Lengths) > 0 {
		lo, hi = lengthRange(result.Lengths)
		if lo == hi {
			lo -= 0.5
			hi += 0.5
		}
	}

	width := (hi - lo) / float64(binCount)
	for i := range summary.Edges {
		summary.Edges[i] = lo + float64(i)*width
	}
	summary.Edges[binCount] = hi

	var total float64
	for _, n := range result.Lengths {
		v := float64(n)
		total += v
		summary.Counts[binIndex(summary.Edges, v)]++
	}

	if summary.Trials > 0 {
		summary.RawMean = total / float64(summary.Trials)
	}
	summary.Mean = RoundToDecimal(summary.RawMean, 1)
	summary.Label = MeanLabel(summary.Mean)

	return summary
}

// MeanLabel is the caption shown under a player's histogram.
func MeanLabel(mean float64) string {
	return fmt.Sprintf("Average games to reach endgame = %.1f", mean)
}

// RoundToDecimal rounds a float to specified decimal places
func RoundToDecimal(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func lengthRange(lengths []int) (float64, float64) {
	lo, hi := lengths[0], lengths[0]
	for _, n := range lengths[1:] {
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return float64(lo), float64(hi)
}

// binIndex locates v among edges; v is known to lie within [edges[0], edges[last]].
func binIndex(edges []float64, v float64) int {
	bins := len(edges) - 1
	lo, hi := edges[0], edges[bins]

	idx := int((v - lo) / (hi - lo) * float64(bins))
	if idx >= bins {
		idx = bins - 1
	}
	if idx < 0 {
		idx = 0
	}

	// Float rounding can land one bucket off near an edge
	if idx > 0 && v < edges[idx] {
		idx--
	} else if idx < bins-1 && v >= edges[idx+1] {
		idx++
	}
	return idx
}
