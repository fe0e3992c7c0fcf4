package report

import (
	"math"
	"strings"
	"testing"

	"github.com/classpulse/classpulse-cli/internal/engine"
	"github.com/classpulse/classpulse-cli/internal/roster"
)

func sampleRecords() []roster.StudentRecord {
	mk := func(name string, avg, math_, arabic float64) roster.StudentRecord {
		return roster.StudentRecord{
			Name: name, Class: "2APIC-1",
			Grades:  map[string]float64{roster.SubjMath: math_, roster.SubjArabic: arabic},
			Average: avg,
		}
	}
	return []roster.StudentRecord{
		mk("أمينة", 15.5, 16, 15),
		mk("يوسف", 8.5, 7, 10),
		mk("سارة", 10.5, 11, 10),
		mk("كريم", 12.0, 13, 11),
		mk("ليلى", 9.5, 9, 10),
	}
}

func TestRenderSections(t *testing.T) {
	schema := roster.DefaultSchema()
	views, err := engine.Compute(sampleRecords(), engine.AnalysisRequest{}, schema, engine.DefaultParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	md := Render(views, schema)

	for _, section := range []string{
		"[TERM REPORT]", "[OVERVIEW]", "[GRADE BRACKETS]", "[SUBJECT STATISTICS]",
		"[TOP STUDENTS]", "[BOTTOM STUDENTS]", "[SCIENCE VS HUMANITIES]",
		"[LANGUAGE PROFICIENCY]", "[SUBJECT CORRELATIONS]", "[FAILURE ANALYSIS]",
		"[RISK TIERS]",
	} {
		if !strings.Contains(md, section) {
			t.Fatalf("report missing section %s", section)
		}
	}
	if !strings.Contains(md, "اللغة العربية") {
		t.Fatalf("report should carry the workbook subject labels")
	}
	if !strings.Contains(md, views.RunID) {
		t.Fatalf("report should cite the run id")
	}
}

func TestRenderUndefinedAsDash(t *testing.T) {
	schema := roster.DefaultSchema()
	// One student, no grades: nearly everything is undefined.
	records := []roster.StudentRecord{{
		Name: "x", Class: "1A", Grades: map[string]float64{}, Average: math.NaN(),
	}}
	views, err := engine.Compute(records, engine.AnalysisRequest{}, schema, engine.DefaultParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	md := Render(views, schema)
	if !strings.Contains(md, "—") {
		t.Fatalf("undefined values must render as an em dash")
	}
	if strings.Contains(md, "NaN") {
		t.Fatalf("NaN must never leak into the report")
	}
	if !strings.Contains(md, "Insufficient data") {
		t.Fatalf("a one-student cohort must report insufficient correlation data")
	}
}

func TestRenderBorderlineBand(t *testing.T) {
	schema := roster.DefaultSchema()
	views, err := engine.Compute(sampleRecords(), engine.AnalysisRequest{}, schema, engine.DefaultParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	md := Render(views, schema)
	if !strings.Contains(md, "[BORDERLINE 9-11]") {
		t.Fatalf("borderline section missing")
	}
	// 9.5 is below the mark: the report must show the points shortfall
	if !strings.Contains(md, "needs +") {
		t.Fatalf("failing borderline student should show points needed")
	}
}
