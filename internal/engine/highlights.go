package engine

import (
	"math"
	"sort"

	"github.com/classpulse/classpulse-cli/internal/roster"
)

// StudentHighlight annotates one ranked student with their strongest and
// weakest subjects.
type StudentHighlight struct {
	Name    string
	Class   string
	Average float64

	BestSubject string
	BestGrade   float64
	// BestNote grades the strongest subject: outstanding (>= 18), strong
	// (>= 15), otherwise plain.
	BestNote string

	WorstSubject string
	WorstGrade   float64
	// Struggling is set when even this student's weakest subject is a fail.
	Struggling bool
}

// BorderlineStudent sits in the [AtRiskBelow, BorderlineHighMax] band where
// a single subject can flip the outcome.
type BorderlineStudent struct {
	Name    string
	Class   string
	Average float64
	Passing bool
	// DraggingSubject is the weakest graded subject, the one pulling the
	// average down.
	DraggingSubject string
	DraggingGrade   float64
	// PointsNeeded estimates the total subject points required to lift the
	// average to the pass mark; zero once passing.
	PointsNeeded float64
}

const (
	noteOutstanding = "outstanding"
	noteStrong      = "strong"
	notePlain       = "best_subject"
)

// HighlightsView carries the top/bottom/borderline tables of the report.
type HighlightsView struct {
	Top        []StudentHighlight
	Bottom     []StudentHighlight
	Borderline []BorderlineStudent
}

func buildHighlights(records []roster.StudentRecord, schema roster.Schema, p Params) HighlightsView {
	graded := make([]roster.StudentRecord, 0, len(records))
	for _, r := range records {
		if r.HasAverage() {
			graded = append(graded, r)
		}
	}
	byAvgDesc := make([]roster.StudentRecord, len(graded))
	copy(byAvgDesc, graded)
	sort.SliceStable(byAvgDesc, func(i, j int) bool { return byAvgDesc[i].Average > byAvgDesc[j].Average })

	n := p.TopBottomCount
	if n > len(byAvgDesc) {
		n = len(byAvgDesc)
	}
	var view HighlightsView
	for _, r := range byAvgDesc[:n] {
		view.Top = append(view.Top, highlight(r, schema, p))
	}
	for i := 0; i < n; i++ {
		view.Bottom = append(view.Bottom, highlight(byAvgDesc[len(byAvgDesc)-1-i], schema, p))
	}

	var band []roster.StudentRecord
	for _, r := range graded {
		if r.Average >= p.AtRiskBelow && r.Average <= p.BorderlineHighMax {
			band = append(band, r)
		}
	}
	sort.SliceStable(band, func(i, j int) bool { return band[i].Average < band[j].Average })
	for _, r := range band {
		bs := BorderlineStudent{
			Name:          r.Name,
			Class:         r.Class,
			Average:       r.Average,
			Passing:       r.Average >= p.PassMark,
			DraggingGrade: math.NaN(),
		}
		for _, key := range schema.Keys() {
			v := r.Grade(key)
			if math.IsNaN(v) {
				continue
			}
			if math.IsNaN(bs.DraggingGrade) || v < bs.DraggingGrade {
				bs.DraggingGrade = v
				bs.DraggingSubject = key
			}
		}
		if !bs.Passing {
			gradedSubjects := 0
			for _, key := range schema.Keys() {
				if r.HasGrade(key) {
					gradedSubjects++
				}
			}
			bs.PointsNeeded = (p.PassMark - r.Average) * float64(gradedSubjects)
		}
		view.Borderline = append(view.Borderline, bs)
	}
	return view
}

func highlight(r roster.StudentRecord, schema roster.Schema, p Params) StudentHighlight {
	h := StudentHighlight{
		Name:       r.Name,
		Class:      r.Class,
		Average:    r.Average,
		BestGrade:  math.NaN(),
		WorstGrade: math.NaN(),
	}
	for _, key := range schema.Keys() {
		v := r.Grade(key)
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(h.BestGrade) || v > h.BestGrade {
			h.BestGrade = v
			h.BestSubject = key
		}
		if math.IsNaN(h.WorstGrade) || v < h.WorstGrade {
			h.WorstGrade = v
			h.WorstSubject = key
		}
	}
	switch {
	case h.BestGrade >= 18:
		h.BestNote = noteOutstanding
	case h.BestGrade >= 15:
		h.BestNote = noteStrong
	default:
		h.BestNote = notePlain
	}
	h.Struggling = !math.IsNaN(h.WorstGrade) && h.WorstGrade < p.PassMark
	return h
}
