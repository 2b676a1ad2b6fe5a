package fuzzy

import "strings"

// Bands defines the keyword-length bands of the threshold policy and the
// required similarity for each. Short keywords have little room for
// edit-distance tolerance without matching unrelated words; the bands
// relax as keywords lengthen.
type Bands struct {
	VeryShortMax int // <= this length: exact match only
	ShortMax     int
	MediumMax    int
	LongMax      int

	VeryShort float64
	Short     float64
	Medium    float64
	Long      float64
	VeryLong  float64
}

// DefaultBands returns the production threshold bands.
func DefaultBands() Bands {
	return Bands{
		VeryShortMax: 3,
		ShortMax:     5,
		MediumMax:    8,
		LongMax:      12,
		VeryShort:    1.0,
		Short:        0.95,
		Medium:       0.85,
		Long:         0.80,
		VeryLong:     0.70,
	}
}

// ThresholdPolicy maps a keyword to the fuzzy similarity it must reach to
// be accepted as a match.
type ThresholdPolicy struct {
	bands Bands
}

// NewThresholdPolicy creates a policy over the given bands.
func NewThresholdPolicy(b Bands) *ThresholdPolicy {
	return &ThresholdPolicy{bands: b}
}

// ThresholdFor returns the required similarity for a keyword, a step
// function of its trimmed rune length.
func (p *ThresholdPolicy) ThresholdFor(keyword string) float64 {
	n := len([]rune(strings.TrimSpace(keyword)))

	switch {
	case n <= p.bands.VeryShortMax:
		return p.bands.VeryShort
	case n <= p.bands.ShortMax:
		return p.bands.Short
	case n <= p.bands.MediumMax:
		return p.bands.Medium
	case n <= p.bands.LongMax:
		return p.bands.Long
	default:
		return p.bands.VeryLong
	}
}

// Thresholds computes the threshold for every keyword in one pass.
func (p *ThresholdPolicy) Thresholds(keywords []string) map[string]float64 {
	out := make(map[string]float64, len(keywords))
	for _, k := range keywords {
		out[k] = p.ThresholdFor(k)
	}
	return out
}
