package scoring

import (
	"fmt"
	"math"
	"sort"
)

// Risk level labels for explanation entries.
const (
	RiskLevelHigh   = "high"
	RiskLevelMedium = "medium"
)

// TopRiskFactors builds the ranked explanation for one scored request.
//
// (name, value, importance) triples are zipped positionally — positional
// correspondence is the only linkage, so a length mismatch between the
// vector and the metadata is rejected here even though the artifact loader
// already guards it. Entries are stable-sorted descending by importance
// (ties keep original order) and the top N returned. An entry is "high"
// when its importance exceeds the 75th percentile of the ENTIRE importance
// distribution, not just the selected subset.
//
// The importance weights are global and static: the explanation ranks
// generally important features and reports the current request's value for
// each. It is not a per-request attribution.
func TopRiskFactors(vector []float64, names []string, importance []float64, topN int) ([]RiskFactor, error) {
	if len(importance) == 0 {
		// Degraded metadata: explanation unavailable, scoring unaffected.
		return []RiskFactor{}, nil
	}
	if len(vector) != len(names) || len(names) != len(importance) {
		return nil, fmt.Errorf("explanation inputs misaligned: vector=%d names=%d importance=%d",
			len(vector), len(names), len(importance))
	}

	indices := make([]int, len(names))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return importance[indices[a]] > importance[indices[b]]
	})

	if topN > len(indices) {
		topN = len(indices)
	}

	p75 := percentile(importance, 75)

	factors := make([]RiskFactor, 0, topN)
	for _, idx := range indices[:topN] {
		level := RiskLevelMedium
		if importance[idx] > p75 {
			level = RiskLevelHigh
		}
		factors = append(factors, RiskFactor{
			Feature:    names[idx],
			Value:      vector[idx],
			Importance: importance[idx],
			RiskLevel:  level,
		})
	}
	return factors, nil
}

// RankImportance returns the full importance list sorted descending, the
// same ordering rule the explainer uses but without the top-N cut. Feeds
// the model metrics and feature importance endpoints.
func RankImportance(names []string, importance []float64) []ImportanceEntry {
	n := len(names)
	if len(importance) < n {
		n = len(importance)
	}
	entries := make([]ImportanceEntry, n)
	for i := 0; i < n; i++ {
		entries[i] = ImportanceEntry{Feature: names[i], Importance: importance[i]}
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Importance > entries[b].Importance
	})
	return entries
}

// percentile computes the q-th percentile with linear interpolation between
// closest ranks, matching the training pipeline's convention.
func percentile(values []float64, q float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := q / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
