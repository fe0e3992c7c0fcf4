package engine

import (
	"math"
	"testing"

	"github.com/classpulse/classpulse-cli/internal/roster"
)

func TestLanguageStudentGap(t *testing.T) {
	schema := roster.DefaultSchema()
	p := DefaultParams()
	records := []roster.StudentRecord{
		student("a", "1A", nan, map[string]float64{
			roster.SubjArabic: 14, roster.SubjFrench: 10, roster.SubjEnglish: 12,
		}),
	}
	view := buildLanguage(records, schema, p)
	if len(view.Students) != 1 {
		t.Fatalf("got %d gap students, want 1", len(view.Students))
	}
	g := view.Students[0]
	if !almostEqual(g.ForeignMean, 11) {
		t.Fatalf("foreign mean = %v, want 11", g.ForeignMean)
	}
	if !almostEqual(g.Gap, 3) {
		t.Fatalf("gap = %v, want 3", g.Gap)
	}
	if g.Bucket != GapMotherTongue {
		t.Fatalf("bucket = %q, want mother tongue", g.Bucket)
	}
}

func TestLanguageGapBuckets(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		gap  float64
		want GapBucket
	}{
		{1.01, GapMotherTongue},
		{1.0, GapBalanced},
		{0, GapBalanced},
		{-1.0, GapBalanced},
		{-1.01, GapForeign},
	}
	for _, c := range cases {
		if got := gapBucket(c.gap, p); got != c.want {
			t.Fatalf("gapBucket(%v) = %q, want %q", c.gap, got, c.want)
		}
	}
}

func TestLanguageCohortGapIsMeanOfMeans(t *testing.T) {
	schema := roster.DefaultSchema()
	p := DefaultParams()
	// French has two grades, English one: the cohort foreign mean averages
	// the per-language means, it does not flatten grades.
	records := []roster.StudentRecord{
		student("a", "1A", nan, map[string]float64{
			roster.SubjArabic: 14, roster.SubjFrench: 8, roster.SubjEnglish: 12,
		}),
		student("b", "1A", nan, map[string]float64{
			roster.SubjArabic: 12, roster.SubjFrench: 10,
		}),
	}
	view := buildLanguage(records, schema, p)
	// arabic mean 13; french mean 9, english mean 12 -> foreign (9+12)/2 = 10.5
	if !almostEqual(view.ProficiencyGap, 13-10.5) {
		t.Fatalf("proficiency gap = %v, want 2.5", view.ProficiencyGap)
	}
	if view.Severity != GapLarge {
		t.Fatalf("severity = %q, want large", view.Severity)
	}
	// french minus english
	if !almostEqual(view.ForeignDelta, 9-12) {
		t.Fatalf("foreign delta = %v, want -3", view.ForeignDelta)
	}
}

func TestLanguageStudentsWithoutBothSidesExcluded(t *testing.T) {
	schema := roster.DefaultSchema()
	p := DefaultParams()
	records := []roster.StudentRecord{
		student("nomother", "1A", nan, map[string]float64{roster.SubjFrench: 10}),
		student("noforeign", "1A", nan, map[string]float64{roster.SubjArabic: 14}),
	}
	view := buildLanguage(records, schema, p)
	if view.Defined != 0 {
		t.Fatalf("defined = %d, want 0", view.Defined)
	}
	if len(view.Percents) != 0 {
		t.Fatalf("percents must stay empty for an empty gap population")
	}
}

func TestGapSeverityLadder(t *testing.T) {
	cases := []struct {
		gap  float64
		want GapSeverity
	}{
		{2.5, GapLarge},
		{1.5, GapModerate},
		{0.5, GapSmall},
		{0, GapForeignAhead},
		{-1, GapForeignAhead},
		{math.Inf(-1), GapForeignAhead},
	}
	for _, c := range cases {
		if got := gapSeverity(c.gap); got != c.want {
			t.Fatalf("gapSeverity(%v) = %q, want %q", c.gap, got, c.want)
		}
	}
}
