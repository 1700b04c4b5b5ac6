package cohort

import (
	"sort"

	"github.com/riftlens/riftlens/internal/model"
)

// Percentiles computes the p50/p75/p90/p95 distribution of values using
// linear interpolation between order statistics (rank = q*(n-1)). Returns
// false when values is empty. The input slice is not modified.
func Percentiles(values []float64) (model.Distribution, bool) {
	if len(values) == 0 {
		return model.Distribution{}, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return model.Distribution{
		P50: quantile(sorted, 0.50),
		P75: quantile(sorted, 0.75),
		P90: quantile(sorted, 0.90),
		P95: quantile(sorted, 0.95),
	}, true
}

// quantile interpolates q over a sorted slice. Monotonic in q, so the
// resulting distribution always satisfies p50 <= p75 <= p90 <= p95.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := q * float64(n-1)
	lo := int(rank)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
