package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/classpulse/classpulse-cli/internal/roster"
)

func TestComputeEmptyCohort(t *testing.T) {
	schema := roster.DefaultSchema()
	records := cohortOf(12, 13)
	_, err := Compute(records, AnalysisRequest{Classes: []string{"no-such-class"}}, schema, DefaultParams())
	if !errors.Is(err, ErrEmptyCohort) {
		t.Fatalf("err = %v, want ErrEmptyCohort", err)
	}
	_, err = Compute(nil, AnalysisRequest{}, schema, DefaultParams())
	if !errors.Is(err, ErrEmptyCohort) {
		t.Fatalf("err = %v, want ErrEmptyCohort for no records", err)
	}
}

func TestComputeDeterministicApartFromRunID(t *testing.T) {
	schema := roster.DefaultSchema()
	records := []roster.StudentRecord{
		student("a", "1A", 8.5, map[string]float64{roster.SubjMath: 8, roster.SubjArabic: 9}),
		student("b", "1A", 12.5, map[string]float64{roster.SubjMath: 13, roster.SubjArabic: 12}),
		student("c", "1B", 15, map[string]float64{roster.SubjMath: 16, roster.SubjArabic: 14}),
	}
	p := DefaultParams()
	v1, err := Compute(records, AnalysisRequest{}, schema, p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	v2, err := Compute(records, AnalysisRequest{}, schema, p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if v1.RunID == v2.RunID {
		t.Fatalf("run ids must differ")
	}
	if v1.Overview != v2.Overview {
		t.Fatalf("overview differs between identical runs: %+v vs %+v", v1.Overview, v2.Overview)
	}
	if v1.Brackets.Graded != v2.Brackets.Graded || v1.Brackets.SuccessRate != v2.Brackets.SuccessRate {
		t.Fatalf("bracket views differ between identical runs")
	}
}

func TestComputeCohortSelectionChangesBaseline(t *testing.T) {
	schema := roster.DefaultSchema()
	p := DefaultParams()
	// 1A is a weak class; 13.0 clears mean + 1.5 sigma there but not school-wide.
	records := []roster.StudentRecord{
		student("w1", "1A", 9.5, nil),
		student("w2", "1A", 10, nil),
		student("w3", "1A", 10.5, nil),
		student("w4", "1A", 10, nil),
		student("w5", "1A", 9.8, nil),
		student("w6", "1A", 10.2, nil),
		student("star", "1A", 13, nil),
		student("s1", "1B", 16, nil),
		student("s2", "1B", 17, nil),
		student("s3", "1B", 15.5, nil),
	}
	classOnly, err := Compute(records, AnalysisRequest{Classes: []string{"1A"}}, schema, p)
	if err != nil {
		t.Fatalf("Compute 1A: %v", err)
	}
	school, err := Compute(records, AnalysisRequest{}, schema, p)
	if err != nil {
		t.Fatalf("Compute school: %v", err)
	}
	inTier := func(v *DerivedViews, tier RiskTier, name string) bool {
		for _, ref := range v.Risk.Membership[tier] {
			if ref.Name == name {
				return true
			}
		}
		return false
	}
	if !inTier(classOnly, TierExcellent, "star") {
		t.Fatalf("star should be excellent within the weak class")
	}
	if inTier(school, TierExcellent, "star") {
		t.Fatalf("star should not be excellent school-wide")
	}
}

func TestComputeOverviewWithMissingAverages(t *testing.T) {
	schema := roster.DefaultSchema()
	records := []roster.StudentRecord{
		student("a", "1A", math.NaN(), nil),
		student("b", "1A", math.NaN(), nil),
	}
	v, err := Compute(records, AnalysisRequest{}, schema, DefaultParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if v.Overview.Students != 2 {
		t.Fatalf("students = %d, want 2", v.Overview.Students)
	}
	if !math.IsNaN(v.Overview.MeanAverage) {
		t.Fatalf("mean of an ungraded cohort must stay undefined")
	}
}

func TestRecommendations(t *testing.T) {
	schema := roster.DefaultSchema()
	p := DefaultParams()
	records := []roster.StudentRecord{
		student("risk", "1A", 7, nil),
		student("border", "1A", 9.5, nil),
		student("mid", "1A", 11, nil),
		student("mid2", "1A", 11.5, nil),
		student("top", "1A", 19, nil),
	}
	v, err := Compute(records, AnalysisRequest{}, schema, p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	kinds := map[string]int{}
	for _, r := range v.Recommendations {
		kinds[r.Kind] = r.Count
	}
	if kinds[RecommendUrgentSupport] != 1 {
		t.Fatalf("urgent support count = %d, want 1", kinds[RecommendUrgentSupport])
	}
	if kinds[RecommendCloseMonitoring] != 1 {
		t.Fatalf("close monitoring count = %d, want 1", kinds[RecommendCloseMonitoring])
	}
}
