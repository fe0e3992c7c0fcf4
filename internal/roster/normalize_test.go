package roster

import (
	"errors"
	"math"
	"testing"
)

func TestParseGrade(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"12,5", 12.5},
		{"12.5", 12.5},
		{" 08,25 ", 8.25},
		{"", math.NaN()},
		{"غ", math.NaN()},
		{"n/a", math.NaN()},
		{"25,0", 25.0}, // out of range values pass through
	}
	for _, c := range cases {
		got := ParseGrade(c.in)
		if math.IsNaN(c.want) {
			if !math.IsNaN(got) {
				t.Fatalf("ParseGrade(%q) = %v, want NaN", c.in, got)
			}
			continue
		}
		if got != c.want {
			t.Fatalf("ParseGrade(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNormalizeDropsNamelessRows(t *testing.T) {
	schema := DefaultSchema()
	table := RawTable{
		Class:  "2APIC-3",
		Header: []string{LabelName, schema.Subjects[0].Label, LabelAverage},
		Rows: [][]string{
			{"أمينة", "14,5", "13,0"},
			{"", "9,0", "9,5"},
			{"   ", "11,0", "11,0"},
			{"يوسف", "bad", ""},
		},
	}
	recs, err := Normalize(table, schema)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Name != "أمينة" || recs[0].Class != "2APIC-3" {
		t.Fatalf("unexpected first record: %+v", recs[0])
	}
	if got := recs[0].Grade(schema.Subjects[0].Key); got != 14.5 {
		t.Fatalf("grade = %v, want 14.5", got)
	}
	if recs[0].Average != 13.0 {
		t.Fatalf("average = %v, want 13.0", recs[0].Average)
	}
	// malformed grade and absent average are missing, not zero
	if !math.IsNaN(recs[1].Grade(schema.Subjects[0].Key)) {
		t.Fatalf("malformed grade should be NaN")
	}
	if recs[1].HasAverage() {
		t.Fatalf("missing average should be NaN")
	}
}

func TestNormalizeMissingNameColumn(t *testing.T) {
	table := RawTable{
		Class:  "2APIC-1",
		Header: []string{"ر.ت", LabelAverage},
		Rows:   [][]string{{"1", "12,0"}},
	}
	_, err := Normalize(table, DefaultSchema())
	if !errors.Is(err, ErrNoNameColumn) {
		t.Fatalf("err = %v, want ErrNoNameColumn", err)
	}
}

func TestFilterClasses(t *testing.T) {
	recs := []StudentRecord{
		{Name: "a", Class: "1A"},
		{Name: "b", Class: "1B"},
		{Name: "c", Class: "1A"},
	}
	if got := FilterClasses(recs, nil); len(got) != 3 {
		t.Fatalf("empty selection should keep everyone, got %d", len(got))
	}
	got := FilterClasses(recs, []string{"1A"})
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
	if got := Classes(recs); len(got) != 2 || got[0] != "1A" || got[1] != "1B" {
		t.Fatalf("unexpected classes: %v", got)
	}
}
