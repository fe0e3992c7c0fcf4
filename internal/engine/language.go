package engine

import (
	"math"

	"github.com/classpulse/classpulse-cli/internal/roster"
)

// GapBucket classifies a student's mother-tongue vs foreign-language gap.
type GapBucket string

const (
	GapMotherTongue GapBucket = "better_in_mother_tongue" // gap > +delta
	GapBalanced     GapBucket = "balanced"                // [-delta, +delta]
	GapForeign      GapBucket = "better_in_foreign"       // gap < -delta
)

// GapSeverity is the narrative ladder for the cohort-level proficiency gap.
type GapSeverity string

const (
	GapLarge        GapSeverity = "large"    // > 2
	GapModerate     GapSeverity = "moderate" // > 1
	GapSmall        GapSeverity = "small"    // > 0
	GapForeignAhead GapSeverity = "foreign_ahead"
)

// StudentGap is one student's language gap. Students missing the mother
// tongue grade, or every foreign grade, carry no gap.
type StudentGap struct {
	Name        string
	Class       string
	MotherGrade float64
	ForeignMean float64
	Gap         float64
	Bucket      GapBucket
}

// LanguageStat is the cohort summary for a single language subject.
type LanguageStat struct {
	Key      string
	Label    string
	Mean     float64
	PassRate float64
}

// LanguageView is the language-proficiency analysis.
type LanguageView struct {
	Mother  LanguageStat
	Foreign []LanguageStat

	// ProficiencyGap is the cohort mother-tongue mean minus the mean of the
	// per-language cohort means. It is deliberately a mean of means, and
	// computed independently of the per-student gap list.
	ProficiencyGap float64
	Severity       GapSeverity

	// ForeignDelta compares the two foreign languages (first minus second)
	// when both have data.
	ForeignDelta float64

	Students []StudentGap
	// Counts and Percents are relative to students with a defined gap.
	Counts   map[GapBucket]int
	Percents map[GapBucket]float64
	Defined  int
}

func buildLanguage(records []roster.StudentRecord, schema roster.Schema, p Params) LanguageView {
	view := LanguageView{
		Counts:   map[GapBucket]int{},
		Percents: map[GapBucket]float64{},
	}

	cohortMean := func(key string) float64 {
		var vals []float64
		for _, r := range records {
			if v := r.Grade(key); !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
		return mean(vals)
	}
	cohortPass := func(key string) float64 {
		var vals []float64
		for _, r := range records {
			if v := r.Grade(key); !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
		return rate(vals, func(v float64) bool { return v >= p.PassMark })
	}

	view.Mother = LanguageStat{
		Key:      schema.MotherTongueKey,
		Label:    schema.LabelFor(schema.MotherTongueKey),
		Mean:     cohortMean(schema.MotherTongueKey),
		PassRate: cohortPass(schema.MotherTongueKey),
	}
	var foreignMeans []float64
	for _, key := range schema.ForeignKeys {
		stat := LanguageStat{
			Key:      key,
			Label:    schema.LabelFor(key),
			Mean:     cohortMean(key),
			PassRate: cohortPass(key),
		}
		view.Foreign = append(view.Foreign, stat)
		if !math.IsNaN(stat.Mean) {
			foreignMeans = append(foreignMeans, stat.Mean)
		}
	}
	view.ProficiencyGap = view.Mother.Mean - mean(foreignMeans)
	view.Severity = gapSeverity(view.ProficiencyGap)
	if len(view.Foreign) >= 2 {
		view.ForeignDelta = view.Foreign[0].Mean - view.Foreign[1].Mean
	} else {
		view.ForeignDelta = math.NaN()
	}

	for _, r := range records {
		mother := r.Grade(schema.MotherTongueKey)
		if math.IsNaN(mother) {
			continue
		}
		var foreign []float64
		for _, key := range schema.ForeignKeys {
			if v := r.Grade(key); !math.IsNaN(v) {
				foreign = append(foreign, v)
			}
		}
		if len(foreign) == 0 {
			continue
		}
		fm := mean(foreign)
		gap := mother - fm
		bucket := gapBucket(gap, p)
		view.Students = append(view.Students, StudentGap{
			Name:        r.Name,
			Class:       r.Class,
			MotherGrade: mother,
			ForeignMean: fm,
			Gap:         gap,
			Bucket:      bucket,
		})
		view.Counts[bucket]++
	}
	view.Defined = len(view.Students)
	if view.Defined > 0 {
		for b, n := range view.Counts {
			view.Percents[b] = float64(n) / float64(view.Defined) * 100
		}
	}
	return view
}

func gapBucket(gap float64, p Params) GapBucket {
	switch {
	case gap > p.GapDelta:
		return GapMotherTongue
	case gap < -p.GapDelta:
		return GapForeign
	default:
		return GapBalanced
	}
}

func gapSeverity(gap float64) GapSeverity {
	switch {
	case gap > 2:
		return GapLarge
	case gap > 1:
		return GapModerate
	case gap > 0:
		return GapSmall
	default:
		return GapForeignAhead
	}
}
