package engine

import (
	"math"

	"github.com/classpulse/classpulse-cli/internal/roster"
)

// Tilt classifies a student's science-vs-humanities balance.
type Tilt string

const (
	TiltScience    Tilt = "science"
	TiltHumanities Tilt = "humanities"
	TiltBalanced   Tilt = "balanced"
)

// CohortTiltLabel is the narrative classification of the whole cohort's
// science-minus-humanities delta.
type CohortTiltLabel string

const (
	CohortBalanced         CohortTiltLabel = "balanced"
	CohortSlightScience    CohortTiltLabel = "slight_science"
	CohortStrongScience    CohortTiltLabel = "strong_science"
	CohortSlightHumanities CohortTiltLabel = "slight_humanities"
	CohortStrongHumanities CohortTiltLabel = "strong_humanities"
)

// StudentTilt carries one student's group averages and classification.
// A student missing every grade in either group has no tilt.
type StudentTilt struct {
	Name          string
	Class         string
	ScienceAvg    float64
	HumanitiesAvg float64
	Delta         float64
	Tilt          Tilt
}

// EnrichmentCell is the mean of one enrichment subject (or the combined
// enrichment average) restricted to one tilt bucket. Value is NaN when the
// bucket is empty; presenters render that as an em dash, never as zero.
type EnrichmentCell struct {
	Tilt  Tilt
	Count int
	Value float64
}

// EnrichmentRow cross-tabs one enrichment subject across the tilt buckets.
type EnrichmentRow struct {
	Key   string
	Label string
	Cells [3]EnrichmentCell // science, balanced, humanities
}

// OrientationView is the science/humanities analysis of the cohort.
type OrientationView struct {
	// Cohort group averages use flatten-then-mean semantics: every
	// non-missing grade across students weighs equally, which is not the
	// mean of the per-student averages.
	ScienceAvg    float64
	HumanitiesAvg float64
	Delta         float64
	CohortLabel   CohortTiltLabel

	// PerSubjectAvg maps each group subject to its cohort mean, for the
	// grouped comparison chart.
	PerSubjectAvg map[string]float64

	Students []StudentTilt
	Counts   map[Tilt]int

	// Combined enrichment cross-tab plus one row per enrichment subject.
	Enrichment    [3]EnrichmentCell
	EnrichmentAvg float64
	Rows          []EnrichmentRow
}

func groupAvg(r roster.StudentRecord, keys []string) float64 {
	var vals []float64
	for _, k := range keys {
		if v := r.Grade(k); !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	return mean(vals)
}

func classifyTilt(delta float64, p Params) Tilt {
	switch {
	case delta > p.TiltDelta:
		return TiltScience
	case delta < -p.TiltDelta:
		return TiltHumanities
	default:
		return TiltBalanced
	}
}

func cohortTiltLabel(delta float64, p Params) CohortTiltLabel {
	switch {
	case math.IsNaN(delta) || math.Abs(delta) < p.TiltDelta:
		return CohortBalanced
	case delta >= p.StrongTiltDelta:
		return CohortStrongScience
	case delta >= p.TiltDelta:
		return CohortSlightScience
	case delta <= -p.StrongTiltDelta:
		return CohortStrongHumanities
	default:
		return CohortSlightHumanities
	}
}

func buildOrientation(records []roster.StudentRecord, schema roster.Schema, p Params) OrientationView {
	view := OrientationView{
		PerSubjectAvg: map[string]float64{},
		Counts:        map[Tilt]int{},
	}

	flatten := func(keys []string) []float64 {
		var vals []float64
		for _, k := range keys {
			for _, r := range records {
				if v := r.Grade(k); !math.IsNaN(v) {
					vals = append(vals, v)
				}
			}
		}
		return vals
	}
	view.ScienceAvg = mean(flatten(schema.ScienceKeys))
	view.HumanitiesAvg = mean(flatten(schema.HumanitiesKeys))
	view.Delta = view.ScienceAvg - view.HumanitiesAvg
	view.CohortLabel = cohortTiltLabel(view.Delta, p)

	for _, k := range append(append([]string{}, schema.ScienceKeys...), schema.HumanitiesKeys...) {
		var vals []float64
		for _, r := range records {
			if v := r.Grade(k); !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
		if len(vals) > 0 {
			view.PerSubjectAvg[k] = mean(vals)
		}
	}

	// Per-student tilt. Only students with at least one grade in each group
	// are classified; the others contribute to no bucket.
	for _, r := range records {
		sci := groupAvg(r, schema.ScienceKeys)
		hum := groupAvg(r, schema.HumanitiesKeys)
		if math.IsNaN(sci) || math.IsNaN(hum) {
			continue
		}
		delta := sci - hum
		tilt := classifyTilt(delta, p)
		view.Students = append(view.Students, StudentTilt{
			Name:          r.Name,
			Class:         r.Class,
			ScienceAvg:    sci,
			HumanitiesAvg: hum,
			Delta:         delta,
			Tilt:          tilt,
		})
		view.Counts[tilt]++
	}

	view.EnrichmentAvg = mean(flatten(schema.EnrichmentKeys))
	view.Enrichment = enrichmentCells(records, view.Students, schema.EnrichmentKeys)
	for _, key := range schema.EnrichmentKeys {
		row := EnrichmentRow{Key: key, Label: schema.LabelFor(key)}
		row.Cells = enrichmentCells(records, view.Students, []string{key})
		view.Rows = append(view.Rows, row)
	}
	return view
}

// enrichmentCells computes the mean of the per-student average over keys,
// restricted to each tilt bucket. Students with no enrichment grade at all
// contribute nothing; an empty bucket yields NaN.
func enrichmentCells(records []roster.StudentRecord, tilts []StudentTilt, keys []string) [3]EnrichmentCell {
	byStudent := map[string]float64{}
	for _, r := range records {
		if v := groupAvg(r, keys); !math.IsNaN(v) {
			byStudent[r.Class+"\x00"+r.Name] = v
		}
	}
	order := [3]Tilt{TiltScience, TiltBalanced, TiltHumanities}
	var cells [3]EnrichmentCell
	for i, tilt := range order {
		var vals []float64
		count := 0
		for _, st := range tilts {
			if st.Tilt != tilt {
				continue
			}
			count++
			if v, ok := byStudent[st.Class+"\x00"+st.Name]; ok {
				vals = append(vals, v)
			}
		}
		cells[i] = EnrichmentCell{Tilt: tilt, Count: count, Value: mean(vals)}
	}
	return cells
}
