package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_FlagRule(t *testing.T) {
	p := NewPolicy(0.5)

	tests := []struct {
		score   float64
		flagged bool
	}{
		{0.0, false},
		{0.49, false},
		{0.5, false}, // strictly above, boundary is not flagged
		{0.51, true},
		{1.0, true},
	}

	for _, tt := range tests {
		flagged, _ := p.Evaluate(tt.score)
		assert.Equal(t, tt.flagged, flagged, "score %g", tt.score)
	}
}

func TestPolicy_ConfidenceBoundaryCases(t *testing.T) {
	p := NewPolicy(0.5)

	_, conf := p.Evaluate(0.5)
	assert.Equal(t, 0.0, conf, "score on the boundary has zero confidence")

	_, conf = p.Evaluate(0.0)
	assert.Equal(t, 1.0, conf)

	_, conf = p.Evaluate(1.0)
	assert.Equal(t, 1.0, conf)
}

func TestPolicy_ConfidenceLinearDistance(t *testing.T) {
	p := NewPolicy(0.5)

	_, conf := p.Evaluate(0.75)
	assert.InDelta(t, 0.5, conf, 1e-12)

	_, conf = p.Evaluate(0.25)
	assert.InDelta(t, 0.5, conf, 1e-12)

	_, conf = p.Evaluate(0.6)
	assert.InDelta(t, 0.2, conf, 1e-12)
}

func TestPolicy_ConfidenceSaturates(t *testing.T) {
	// With a non-centered threshold the far side would exceed 1 without
	// the min() clamp.
	p := NewPolicy(0.3)

	_, conf := p.Evaluate(1.0)
	assert.Equal(t, 1.0, conf)

	flagged, conf := p.Evaluate(0.9)
	assert.True(t, flagged)
	assert.Equal(t, 1.0, conf)
}

func TestPolicy_ConfidenceAlwaysInRange(t *testing.T) {
	p := NewPolicy(0.5)
	for s := 0.0; s <= 1.0; s += 0.01 {
		_, conf := p.Evaluate(s)
		assert.GreaterOrEqual(t, conf, 0.0)
		assert.LessOrEqual(t, conf, 1.0)
	}
}
