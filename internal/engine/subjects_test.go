package engine

import (
	"testing"

	"github.com/classpulse/classpulse-cli/internal/roster"
)

func TestSubjectStatsIgnoresMissing(t *testing.T) {
	schema := roster.DefaultSchema()
	p := DefaultParams()
	records := []roster.StudentRecord{
		student("a", "1A", nan, map[string]float64{roster.SubjMath: 12}),
		student("b", "1A", nan, map[string]float64{roster.SubjMath: 8}),
		student("c", "1A", nan, map[string]float64{roster.SubjMath: nan}),
		student("d", "1A", nan, map[string]float64{roster.SubjMath: 16}),
	}
	view := buildSubjectStats(records, schema, p)
	if len(view.Stats) != 1 {
		t.Fatalf("got %d subjects, want 1", len(view.Stats))
	}
	s := view.Stats[0]
	if s.Key != roster.SubjMath {
		t.Fatalf("subject = %s, want math", s.Key)
	}
	if s.Count != 3 {
		t.Fatalf("count = %d, want 3 (NaN excluded)", s.Count)
	}
	if !almostEqual(s.Mean, 12) {
		t.Fatalf("mean = %v, want 12", s.Mean)
	}
	if !almostEqual(s.PassRate, 2.0/3) {
		t.Fatalf("pass rate = %v, want 2/3", s.PassRate)
	}
	if !almostEqual(s.PassRate+s.FailRate, 1) {
		t.Fatalf("pass + fail = %v, want 1", s.PassRate+s.FailRate)
	}
}

func TestSubjectRankings(t *testing.T) {
	schema := roster.DefaultSchema()
	p := DefaultParams()
	records := []roster.StudentRecord{
		student("a", "1A", nan, map[string]float64{roster.SubjMath: 16, roster.SubjArabic: 8, roster.SubjFrench: 12}),
		student("b", "1A", nan, map[string]float64{roster.SubjMath: 14, roster.SubjArabic: 9, roster.SubjFrench: 6}),
	}
	view := buildSubjectStats(records, schema, p)
	if view.Best == nil || view.Best.Key != roster.SubjMath {
		t.Fatalf("best = %+v, want math", view.Best)
	}
	if view.Worst == nil || view.Worst.Key != roster.SubjArabic {
		t.Fatalf("worst = %+v, want arabic", view.Worst)
	}
	// arabic has the smallest spread, french the largest
	if view.MostConsistent == nil || view.MostConsistent.Key != roster.SubjArabic {
		t.Fatalf("most consistent = %+v, want arabic", view.MostConsistent)
	}
	if view.MostVaried == nil || view.MostVaried.Key != roster.SubjFrench {
		t.Fatalf("most varied = %+v, want french", view.MostVaried)
	}
}
