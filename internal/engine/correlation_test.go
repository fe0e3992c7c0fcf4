package engine

import (
	"math"
	"testing"

	"github.com/classpulse/classpulse-cli/internal/roster"
)

// corrCohort builds records graded in math and physics only, math climbing
// and physics following with slight noise.
func corrCohort(n int) []roster.StudentRecord {
	out := make([]roster.StudentRecord, n)
	for i := 0; i < n; i++ {
		m := 8 + float64(i)
		ph := m + float64(i%2) // noisy but strongly aligned
		out[i] = student(name(i), "1A", nan, map[string]float64{
			roster.SubjMath:     m,
			roster.SubjPhysChem: ph,
		})
	}
	return out
}

func TestCorrelationInsufficientRows(t *testing.T) {
	schema := roster.DefaultSchema()
	p := DefaultParams()
	view := buildCorrelation(corrCohort(3), schema, p)
	if !view.Insufficient {
		t.Fatalf("3 complete rows must be insufficient (floor is %d)", p.MinCorrelationRows)
	}
	if view.CompleteRows != 3 {
		t.Fatalf("complete rows = %d, want 3", view.CompleteRows)
	}
	if view.Matrix != nil {
		t.Fatalf("insufficient analysis must not carry a matrix")
	}
}

func TestCorrelationMatrixShape(t *testing.T) {
	schema := roster.DefaultSchema()
	p := DefaultParams()
	view := buildCorrelation(corrCohort(8), schema, p)
	if view.Insufficient {
		t.Fatalf("8 complete rows should be sufficient")
	}
	n := len(view.Subjects)
	if n != 2 {
		t.Fatalf("subjects = %v, want the two graded ones", view.Subjects)
	}
	for i := 0; i < n; i++ {
		if view.Matrix[i][i] != 1 {
			t.Fatalf("diagonal must be 1")
		}
		for j := 0; j < n; j++ {
			r := view.Matrix[i][j]
			if r != view.Matrix[j][i] {
				t.Fatalf("matrix not symmetric at (%d,%d)", i, j)
			}
			if r < -1 || r > 1 {
				t.Fatalf("r out of bounds: %v", r)
			}
		}
	}
	if len(view.Pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(view.Pairs))
	}
	if view.Pairs[0].R < 0.7 {
		t.Fatalf("aligned subjects should correlate strongly, got %v", view.Pairs[0].R)
	}
}

func TestCorrelationPerSubjectExcludesSelf(t *testing.T) {
	schema := roster.DefaultSchema()
	p := DefaultParams()
	view := buildCorrelation(corrCohort(8), schema, p)
	for key, list := range view.PerSubject {
		for _, sc := range list {
			if sc.Other == key {
				t.Fatalf("subject %s correlates with itself in the drill view", key)
			}
		}
		if len(list) != len(view.Subjects)-1 {
			t.Fatalf("subject %s lists %d partners, want %d", key, len(list), len(view.Subjects)-1)
		}
	}
}

func TestCorrelationIncompleteRowsDropped(t *testing.T) {
	schema := roster.DefaultSchema()
	p := DefaultParams()
	records := corrCohort(6)
	// one student missing physics: the row drops, the subject stays
	records = append(records, student("x", "1A", nan, map[string]float64{
		roster.SubjMath: 11, roster.SubjPhysChem: math.NaN(),
	}))
	view := buildCorrelation(records, schema, p)
	if view.CompleteRows != 6 {
		t.Fatalf("complete rows = %d, want 6", view.CompleteRows)
	}
	if len(view.Subjects) != 2 {
		t.Fatalf("subjects = %v, want 2", view.Subjects)
	}
}
