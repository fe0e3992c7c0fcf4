package engine

import (
	"math"
	"testing"
)

func TestBracketOf(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		avg  float64
		want Bracket
	}{
		{9.99, BracketBelowAverage},
		{10, BracketAverage},
		{11.99, BracketAverage},
		{12, BracketGood},
		{20, BracketGood},
		{nan, BracketNone},
	}
	for _, c := range cases {
		if got := p.BracketOf(c.avg); got != c.want {
			t.Fatalf("BracketOf(%v) = %q, want %q", c.avg, got, c.want)
		}
	}
}

func TestBuildBrackets(t *testing.T) {
	p := DefaultParams()
	view := buildBrackets(cohortOf(8.5, 9.5, 15.0), p)

	if view.Graded != 3 {
		t.Fatalf("graded = %d, want 3", view.Graded)
	}
	wantCounts := [3]int{2, 0, 1}
	for i, want := range wantCounts {
		if view.Stats[i].Count != want {
			t.Fatalf("bracket %d count = %d, want %d", i, view.Stats[i].Count, want)
		}
	}
	if !almostEqual(view.SuccessRate, 100.0/3) {
		t.Fatalf("success rate = %v, want 33.33", view.SuccessRate)
	}
	if !almostEqual(view.ExcellenceRate, 100.0/3) {
		t.Fatalf("excellence rate = %v, want 33.33", view.ExcellenceRate)
	}
	// empty bracket renders as undefined mean, not zero
	if !math.IsNaN(view.Stats[1].MeanAverage) {
		t.Fatalf("empty bracket mean = %v, want NaN", view.Stats[1].MeanAverage)
	}
}

func TestBracketsPartitionGraded(t *testing.T) {
	p := DefaultParams()
	view := buildBrackets(cohortOf(4, 9.99, 10, 10.5, 11.99, 12, 18, nan), p)
	sum := 0
	for _, s := range view.Stats {
		sum += s.Count
	}
	if sum != view.Graded {
		t.Fatalf("bracket counts sum to %d, graded is %d", sum, view.Graded)
	}
	if view.Graded != 7 {
		t.Fatalf("graded = %d, want 7 (ungraded student excluded)", view.Graded)
	}
}
