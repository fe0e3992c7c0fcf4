package engine

// Params are the numeric thresholds of the analysis. Every cut-point that
// varied across historical copies of this logic lives here so a variant is a
// config diff, not a code fork.
type Params struct {
	// PassMark is the pass/fail line on the 0-20 scale.
	PassMark float64
	// GoodMin is the lower bound of the good/excellent bracket.
	GoodMin float64

	// AtRiskBelow marks students needing urgent intervention.
	AtRiskBelow float64
	// BorderlineHighMax closes the barely-passing band [PassMark, BorderlineHighMax).
	BorderlineHighMax float64
	// ExcellentSigma and OutlierSigma are the mean + k*sigma multipliers for
	// the distribution-relative tiers.
	ExcellentSigma float64
	OutlierSigma   float64

	// TiltDelta separates science/humanities tilt from balanced;
	// StrongTiltDelta upgrades the cohort narrative to a strong tilt.
	TiltDelta       float64
	StrongTiltDelta float64

	// GapDelta separates the language-gap buckets.
	GapDelta float64

	// MinCorrelationRows is the complete-case floor below which the
	// correlation analyzer reports insufficient data.
	MinCorrelationRows int
	// MinCorrelationSubjects is the matching column floor.
	MinCorrelationSubjects int

	// MultiFailCount flags students failing at least this many subjects.
	MultiFailCount int
	// CriticalFailRate flags subjects whose fail rate exceeds it.
	CriticalFailRate float64

	// TopBottomCount bounds the highlight lists.
	TopBottomCount int
}

// DefaultParams mirrors the thresholds of the original term reports.
func DefaultParams() Params {
	return Params{
		PassMark:               10,
		GoodMin:                12,
		AtRiskBelow:            9,
		BorderlineHighMax:      11,
		ExcellentSigma:         1.5,
		OutlierSigma:           2,
		TiltDelta:              0.5,
		StrongTiltDelta:        2,
		GapDelta:               1,
		MinCorrelationRows:     5,
		MinCorrelationSubjects: 2,
		MultiFailCount:         3,
		CriticalFailRate:       0.5,
		TopBottomCount:         5,
	}
}
