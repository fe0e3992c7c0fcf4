package engine

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/classpulse/classpulse-cli/internal/roster"
)

// AnalysisRequest selects the cohort a run computes over. An empty Classes
// slice means the whole school. There is no other state: every derived view
// is a pure function of (records, request, params).
type AnalysisRequest struct {
	Classes []string
}

// Overview is the headline strip of the report.
type Overview struct {
	Students int
	// MeanAverage/MaxAverage/MinAverage summarize the overall averages of
	// the cohort; NaN when nobody has one.
	MeanAverage float64
	MaxAverage  float64
	MinAverage  float64
}

// Recommendation is one derived intervention suggestion; the text is purely
// a function of the counts it cites.
type Recommendation struct {
	Kind  string
	Count int
}

const (
	RecommendUrgentSupport   = "urgent_support"
	RecommendCloseMonitoring = "close_monitoring"
	RecommendTeachingReview  = "teaching_review"
	RecommendPeerTutoring    = "peer_tutoring"
)

// DerivedViews is everything the dashboard and the deck consume. Each view
// is independently renderable; recomputing with the same input yields the
// same values (the RunID aside).
type DerivedViews struct {
	RunID   string
	Classes []string // the selection, nil for whole school

	Overview        Overview
	Brackets        BracketView
	Risk            RiskView
	Subjects        SubjectStatsView
	Orientation     OrientationView
	Language        LanguageView
	Correlation     CorrelationView
	Failure         FailureView
	Highlights      HighlightsView
	Recommendations []Recommendation
}

// ErrEmptyCohort is returned when the selection matches no students at all.
var ErrEmptyCohort = errors.New("cohort selection matched no students")

// Compute runs the whole pipeline over the selected cohort. Baseline
// statistics (risk-tier mean and sigma in particular) are recomputed from
// the filtered records on every call.
func Compute(records []roster.StudentRecord, req AnalysisRequest, schema roster.Schema, p Params) (*DerivedViews, error) {
	cohort := roster.FilterClasses(records, req.Classes)
	if len(cohort) == 0 {
		return nil, ErrEmptyCohort
	}

	views := &DerivedViews{
		RunID:   uuid.NewString(),
		Classes: req.Classes,
	}

	var averages []float64
	for _, r := range cohort {
		if r.HasAverage() {
			averages = append(averages, r.Average)
		}
	}
	views.Overview = Overview{
		Students:    len(cohort),
		MeanAverage: mean(averages),
		MaxAverage:  maxOf(averages),
		MinAverage:  minOf(averages),
	}

	views.Brackets = buildBrackets(cohort, p)
	views.Risk = buildRisk(cohort, p)
	views.Subjects = buildSubjectStats(cohort, schema, p)
	views.Orientation = buildOrientation(cohort, schema, p)
	views.Language = buildLanguage(cohort, schema, p)
	views.Correlation = buildCorrelation(cohort, schema, p)
	views.Failure = buildFailure(cohort, schema, p)
	views.Highlights = buildHighlights(cohort, schema, p)
	views.Recommendations = recommend(views, p)
	return views, nil
}

func recommend(v *DerivedViews, p Params) []Recommendation {
	var out []Recommendation
	if n := len(v.Risk.Membership[TierAtRisk]); n > 0 {
		out = append(out, Recommendation{Kind: RecommendUrgentSupport, Count: n})
	}
	if n := len(v.Risk.Membership[TierBorderlineLow]); n > 0 {
		out = append(out, Recommendation{Kind: RecommendCloseMonitoring, Count: n})
	}
	if n := len(v.Failure.Critical); n > 0 {
		out = append(out, Recommendation{Kind: RecommendTeachingReview, Count: n})
	}
	if n := len(v.Risk.Membership[TierExcellent]); n > 0 {
		out = append(out, Recommendation{Kind: RecommendPeerTutoring, Count: n})
	}
	return out
}

func sortRefsByAverage(refs []StudentRef) {
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Average < refs[j].Average })
}
