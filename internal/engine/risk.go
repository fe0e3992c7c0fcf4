package engine

import (
	"math"

	"github.com/classpulse/classpulse-cli/internal/roster"
)

// RiskTier labels one of the overlapping intervention classifications.
// The fixed-threshold tiers and the distribution-relative tiers draw from
// the same population, so a student can hold several at once.
type RiskTier string

const (
	TierAtRisk         RiskTier = "at_risk"         // average < AtRiskBelow
	TierBorderlineLow  RiskTier = "borderline_low"  // [AtRiskBelow, PassMark)
	TierBorderlineHigh RiskTier = "borderline_high" // [PassMark, BorderlineHighMax)
	TierExcellent      RiskTier = "excellent"       // >= mean + ExcellentSigma*sigma
	TierOutlierTop     RiskTier = "outlier_top"     // >= mean + OutlierSigma*sigma
)

// RiskView classifies the current cohort. CohortMean and CohortStd are the
// baseline statistics the relative tiers were evaluated against; they are a
// function of the current selection and change whenever it does.
type RiskView struct {
	CohortMean float64
	CohortStd  float64
	// Membership maps each tier to its members, weakest average first.
	Membership map[RiskTier][]StudentRef
	// ExcellentFloor is the concrete cut-off mean + k*sigma resolved to,
	// NaN when the relative tiers were short-circuited.
	ExcellentFloor float64
	OutlierFloor   float64
}

// Tiers returns the tier set for a single average against the resolved
// floors; used by membership tests and tests alike.
func (v RiskView) Tiers(average float64, p Params) []RiskTier {
	if math.IsNaN(average) {
		return nil
	}
	var out []RiskTier
	switch {
	case average < p.AtRiskBelow:
		out = append(out, TierAtRisk)
	case average < p.PassMark:
		out = append(out, TierBorderlineLow)
	case average < p.BorderlineHighMax:
		out = append(out, TierBorderlineHigh)
	}
	if !math.IsNaN(v.ExcellentFloor) && average >= v.ExcellentFloor {
		out = append(out, TierExcellent)
	}
	if !math.IsNaN(v.OutlierFloor) && average >= v.OutlierFloor {
		out = append(out, TierOutlierTop)
	}
	return out
}

func buildRisk(records []roster.StudentRecord, p Params) RiskView {
	var averages []float64
	for _, r := range records {
		if r.HasAverage() {
			averages = append(averages, r.Average)
		}
	}
	view := RiskView{
		CohortMean:     mean(averages),
		CohortStd:      sampleStd(averages),
		Membership:     map[RiskTier][]StudentRef{},
		ExcellentFloor: math.NaN(),
		OutlierFloor:   math.NaN(),
	}
	// A degenerate cohort (n < 2, or every average identical) has no usable
	// spread; the relative tiers stay empty rather than admitting everyone.
	if !math.IsNaN(view.CohortStd) && view.CohortStd > 0 {
		view.ExcellentFloor = view.CohortMean + p.ExcellentSigma*view.CohortStd
		view.OutlierFloor = view.CohortMean + p.OutlierSigma*view.CohortStd
	}

	for _, r := range records {
		if !r.HasAverage() {
			continue
		}
		ref := StudentRef{Name: r.Name, Class: r.Class, Average: r.Average}
		for _, tier := range view.Tiers(r.Average, p) {
			view.Membership[tier] = append(view.Membership[tier], ref)
		}
	}
	for tier := range view.Membership {
		sortRefsByAverage(view.Membership[tier])
	}
	return view
}
