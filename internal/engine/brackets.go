package engine

import (
	"math"

	"github.com/classpulse/classpulse-cli/internal/roster"
)

// Bracket is one of the three fixed bands derived from the overall average.
type Bracket string

const (
	BracketBelowAverage Bracket = "below_average" // < pass mark
	BracketAverage      Bracket = "average"       // [pass mark, good)
	BracketGood         Bracket = "good_excellent"
	// BracketNone marks students whose overall average is missing.
	BracketNone Bracket = ""
)

// BracketOf classifies a single overall average. A missing average maps to
// no bracket at all, not to the lowest band.
func (p Params) BracketOf(average float64) Bracket {
	switch {
	case math.IsNaN(average):
		return BracketNone
	case average < p.PassMark:
		return BracketBelowAverage
	case average < p.GoodMin:
		return BracketAverage
	default:
		return BracketGood
	}
}

// BracketStat summarizes one bracket's membership.
type BracketStat struct {
	Bracket Bracket
	Count   int
	// Percent is relative to the number of students with a defined average.
	Percent float64
	// MeanAverage is NaN when the bracket is empty.
	MeanAverage float64
	Students    []StudentRef
}

// BracketView is the bracket partition of the current cohort.
type BracketView struct {
	Stats [3]BracketStat
	// Graded counts students with a non-missing overall average; bracket
	// counts always sum to it.
	Graded int
	// SuccessRate is the share of graded students at or above the pass
	// mark; ExcellenceRate the share at or above the good bracket.
	SuccessRate    float64
	ExcellenceRate float64
}

// StudentRef is the minimal student identity the views carry around.
type StudentRef struct {
	Name    string
	Class   string
	Average float64
}

func buildBrackets(records []roster.StudentRecord, p Params) BracketView {
	order := [3]Bracket{BracketBelowAverage, BracketAverage, BracketGood}
	members := map[Bracket][]StudentRef{}
	values := map[Bracket][]float64{}
	graded := 0
	for _, r := range records {
		b := p.BracketOf(r.Average)
		if b == BracketNone {
			continue
		}
		graded++
		members[b] = append(members[b], StudentRef{Name: r.Name, Class: r.Class, Average: r.Average})
		values[b] = append(values[b], r.Average)
	}

	var view BracketView
	view.Graded = graded
	for i, b := range order {
		stat := BracketStat{Bracket: b, Count: len(members[b]), MeanAverage: mean(values[b]), Students: members[b]}
		if graded > 0 {
			stat.Percent = float64(stat.Count) / float64(graded) * 100
		}
		view.Stats[i] = stat
	}
	if graded > 0 {
		passing := view.Stats[1].Count + view.Stats[2].Count
		view.SuccessRate = float64(passing) / float64(graded) * 100
		view.ExcellenceRate = float64(view.Stats[2].Count) / float64(graded) * 100
	}
	return view
}
