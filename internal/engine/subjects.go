package engine

import (
	"math"

	"github.com/classpulse/classpulse-cli/internal/roster"
)

// SubjectStat is the descriptive summary of one subject over the cohort.
type SubjectStat struct {
	Key   string
	Label string
	Mean  float64
	Min   float64
	Max   float64
	// Std is the sample (ddof=1) standard deviation, NaN below two values.
	Std      float64
	Count    int
	PassRate float64
	FailRate float64
}

// SubjectStatsView lists the subjects that had at least one grade, in
// schema order, plus the argmax/argmin rankings over them. Rankings resolve
// ties in favor of the earlier schema position.
type SubjectStatsView struct {
	Stats []SubjectStat

	Best           *SubjectStat
	Worst          *SubjectStat
	MostConsistent *SubjectStat
	MostVaried     *SubjectStat
}

func buildSubjectStats(records []roster.StudentRecord, schema roster.Schema, p Params) SubjectStatsView {
	var view SubjectStatsView
	for _, subj := range schema.Subjects {
		var vals []float64
		for _, r := range records {
			if v := r.Grade(subj.Key); !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
		// A subject nobody was graded in is absent, not a row of NaNs.
		if len(vals) == 0 {
			continue
		}
		pass := rate(vals, func(v float64) bool { return v >= p.PassMark })
		view.Stats = append(view.Stats, SubjectStat{
			Key:      subj.Key,
			Label:    subj.Label,
			Mean:     mean(vals),
			Min:      minOf(vals),
			Max:      maxOf(vals),
			Std:      sampleStd(vals),
			Count:    len(vals),
			PassRate: pass,
			FailRate: 1 - pass,
		})
	}

	for i := range view.Stats {
		s := &view.Stats[i]
		if view.Best == nil || s.Mean > view.Best.Mean {
			view.Best = s
		}
		if view.Worst == nil || s.Mean < view.Worst.Mean {
			view.Worst = s
		}
		if math.IsNaN(s.Std) {
			continue
		}
		if view.MostConsistent == nil || s.Std < view.MostConsistent.Std {
			view.MostConsistent = s
		}
		if view.MostVaried == nil || s.Std > view.MostVaried.Std {
			view.MostVaried = s
		}
	}
	return view
}
