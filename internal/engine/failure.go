package engine

import (
	"math"
	"sort"

	"github.com/classpulse/classpulse-cli/internal/roster"
)

// SubjectFailure is the fail-rate summary of one subject.
type SubjectFailure struct {
	Key       string
	Label     string
	FailCount int
	// FailRate is over non-missing grades only.
	FailRate float64
	Mean     float64
	// Critical subjects fail more than half their graded students.
	Critical bool
}

// MultiFailStudent fails at least the configured number of subjects.
type MultiFailStudent struct {
	Name     string
	Class    string
	Average  float64
	Failing  []string // subject keys, schema order
	FailGaps map[string]float64
}

// FailureView is the intervention-targeting analysis.
type FailureView struct {
	// Subjects are sorted by descending fail rate, schema order on ties.
	Subjects []SubjectFailure
	Critical []string // keys of critical subjects

	MultiFail []MultiFailStudent
	// WorstCase points at the student failing the most subjects, nil when
	// nobody crosses the multi-fail line.
	WorstCase *MultiFailStudent
}

func buildFailure(records []roster.StudentRecord, schema roster.Schema, p Params) FailureView {
	var view FailureView
	for _, subj := range schema.Subjects {
		var vals []float64
		for _, r := range records {
			if v := r.Grade(subj.Key); !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			continue
		}
		failRate := rate(vals, func(v float64) bool { return v < p.PassMark })
		sf := SubjectFailure{
			Key:      subj.Key,
			Label:    subj.Label,
			FailRate: failRate,
			Mean:     mean(vals),
			Critical: failRate > p.CriticalFailRate,
		}
		for _, v := range vals {
			if v < p.PassMark {
				sf.FailCount++
			}
		}
		view.Subjects = append(view.Subjects, sf)
		if sf.Critical {
			view.Critical = append(view.Critical, sf.Key)
		}
	}
	sort.SliceStable(view.Subjects, func(i, j int) bool {
		return view.Subjects[i].FailRate > view.Subjects[j].FailRate
	})

	for _, r := range records {
		var failing []string
		gaps := map[string]float64{}
		for _, subj := range schema.Subjects {
			v := r.Grade(subj.Key)
			if !math.IsNaN(v) && v < p.PassMark {
				failing = append(failing, subj.Key)
				gaps[subj.Key] = p.PassMark - v
			}
		}
		if len(failing) >= p.MultiFailCount {
			view.MultiFail = append(view.MultiFail, MultiFailStudent{
				Name:     r.Name,
				Class:    r.Class,
				Average:  r.Average,
				Failing:  failing,
				FailGaps: gaps,
			})
		}
	}
	sort.SliceStable(view.MultiFail, func(i, j int) bool {
		return len(view.MultiFail[i].Failing) > len(view.MultiFail[j].Failing)
	})
	if len(view.MultiFail) > 0 {
		view.WorstCase = &view.MultiFail[0]
	}
	return view
}
