package deck

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/classpulse/classpulse-cli/internal/engine"
	"github.com/classpulse/classpulse-cli/internal/roster"
)

func sampleViews(t *testing.T) (*engine.DerivedViews, roster.Schema) {
	t.Helper()
	schema := roster.DefaultSchema()
	mk := func(name string, avg, math_, arabic float64) roster.StudentRecord {
		return roster.StudentRecord{
			Name: name, Class: "2APIC-1",
			Grades:  map[string]float64{roster.SubjMath: math_, roster.SubjArabic: arabic},
			Average: avg,
		}
	}
	records := []roster.StudentRecord{
		mk("أمينة", 15.5, 16, 15),
		mk("يوسف", 8.5, 7, 10),
		mk("سارة", 10.5, 11, 10),
		mk("كريم", 12.0, 13, 11),
		mk("ليلى", 9.5, 9, 10),
	}
	views, err := engine.Compute(records, engine.AnalysisRequest{}, schema, engine.DefaultParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return views, schema
}

func TestBuildTextOnlyFallback(t *testing.T) {
	views, schema := sampleViews(t)
	d := Build(views, schema, Unavailable())
	if len(d.Slides) == 0 {
		t.Fatalf("deck has no slides")
	}
	for _, s := range d.Slides {
		if s.Image != nil {
			t.Fatalf("slide %q carries an image despite the unavailable renderer", s.Title)
		}
		if len(s.Lines) == 0 {
			t.Fatalf("slide %q lost its text fallback", s.Title)
		}
	}
	if len(d.SkippedCharts) == 0 {
		t.Fatalf("skipped charts should be recorded")
	}
	// nil renderer behaves the same
	d2 := Build(views, schema, nil)
	if len(d2.Slides) != len(d.Slides) {
		t.Fatalf("nil renderer should match the unavailable renderer")
	}
}

func TestBuildWithRasterRenderer(t *testing.T) {
	views, schema := sampleViews(t)
	d := Build(views, schema, NewRasterRenderer())
	var images int
	for _, s := range d.Slides {
		if s.Image != nil {
			images++
			if !bytes.HasPrefix(s.Image, []byte("\x89PNG")) {
				t.Fatalf("slide %q image is not a PNG", s.Title)
			}
			if s.ImageName == "" {
				t.Fatalf("slide %q has an image but no file name", s.Title)
			}
		}
	}
	if images == 0 {
		t.Fatalf("expected at least one rendered chart")
	}
	if len(d.SkippedCharts) != 0 {
		t.Fatalf("unexpected skips: %v", d.SkippedCharts)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	r := NewRasterRenderer()
	_, err := r.Render(ChartSpec{Kind: "scatter", Title: "x", Values: []ChartValue{{Label: "a", Value: 1}}})
	if err == nil {
		t.Fatalf("unsupported chart kind must error")
	}
	_, err = r.Render(ChartSpec{Kind: ChartBar, Title: "empty"})
	if err == nil {
		t.Fatalf("empty value set must error")
	}
}

func TestWriteDir(t *testing.T) {
	views, schema := sampleViews(t)
	d := Build(views, schema, NewRasterRenderer())
	dir := t.TempDir()
	if err := WriteDir(d, filepath.Join(dir, "deck")); err != nil {
		t.Fatalf("WriteDir: %v", err)
	}
	md, err := os.ReadFile(filepath.Join(dir, "deck", "slides.md"))
	if err != nil {
		t.Fatalf("read slides.md: %v", err)
	}
	text := string(md)
	if !strings.Contains(text, "# Term results: whole school") {
		t.Fatalf("deck title missing")
	}
	for _, s := range d.Slides {
		if !strings.Contains(text, "## "+s.Title) {
			t.Fatalf("slide %q missing from slides.md", s.Title)
		}
		if s.Image != nil {
			if _, err := os.Stat(filepath.Join(dir, "deck", s.ImageName)); err != nil {
				t.Fatalf("chart file %s not written: %v", s.ImageName, err)
			}
		}
	}
}
