package scoring

import "math"

// Policy converts a raw risk score into a flag decision and a confidence
// value via a fixed threshold.
type Policy struct {
	Threshold float64
}

// NewPolicy creates a decision policy with the given flag threshold.
func NewPolicy(threshold float64) Policy {
	return Policy{Threshold: threshold}
}

// Evaluate flags scores strictly above the threshold and computes
// confidence as min(1, |score−threshold|·2): linear distance from the
// decision boundary, saturating at the extremes. This is deliberately NOT
// model-calibrated uncertainty — a score sitting on the threshold yields
// confidence 0, a score of 0 or 1 yields confidence 1.
func (p Policy) Evaluate(score float64) (flagged bool, confidence float64) {
	flagged = score > p.Threshold
	confidence = math.Min(1.0, math.Abs(score-p.Threshold)*2)
	return flagged, confidence
}
