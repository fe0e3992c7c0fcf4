package engine

import (
	"math"
	"sort"

	"github.com/classpulse/classpulse-cli/internal/roster"
)

// Strength is the canonical correlation-magnitude ladder, applied uniformly
// across ranked pairs and summaries.
type Strength string

const (
	StrengthVeryStrong Strength = "very_strong" // r >= 0.7
	StrengthModerate   Strength = "moderate"    // 0.4 <= r < 0.7
	StrengthWeak       Strength = "weak"        // 0.2 <= r < 0.4
	StrengthNegligible Strength = "negligible"  // 0 <= r < 0.2
	StrengthInverse    Strength = "inverse"     // r < 0
)

// StrengthOf classifies a signed correlation value.
func StrengthOf(r float64) Strength {
	switch {
	case r >= 0.7:
		return StrengthVeryStrong
	case r >= 0.4:
		return StrengthModerate
	case r >= 0.2:
		return StrengthWeak
	case r >= 0:
		return StrengthNegligible
	default:
		return StrengthInverse
	}
}

// PairRelation is the per-subject classification used by the subject drill
// view, distinct from the magnitude ladder above.
type PairRelation string

const (
	RelationStrongPositive   PairRelation = "strong_positive"   // r >= 0.6
	RelationModeratePositive PairRelation = "moderate_positive" // 0.4 <= r < 0.6
	RelationWeak             PairRelation = "weak"              // -0.4 < r < 0.4
	RelationNegative         PairRelation = "negative"          // r <= -0.4
)

func relationOf(r float64) PairRelation {
	switch {
	case r >= 0.6:
		return RelationStrongPositive
	case r >= 0.4:
		return RelationModeratePositive
	case r > -0.4:
		return RelationWeak
	default:
		return RelationNegative
	}
}

// CorrelationPair is one upper-triangle entry of the matrix.
type CorrelationPair struct {
	A, B     string // subject keys, A before B in schema order
	R        float64
	Strength Strength
}

// SubjectCorrelation is one subject's correlation to another, used by the
// per-subject view.
type SubjectCorrelation struct {
	Other    string
	R        float64
	Relation PairRelation
}

// CorrelationView is the subject-by-subject Pearson analysis over the
// complete-case sub-table (overall average excluded).
type CorrelationView struct {
	// Insufficient is set when fewer than the configured minimum of
	// complete rows or subjects were available; every other field is then
	// zero-valued and must not be rendered as a degenerate matrix.
	Insufficient bool
	CompleteRows int

	Subjects []string // keys, schema order
	Matrix   [][]float64

	// Pairs holds the full upper triangle sorted by descending |r|; Top and
	// Bottom are its head and reversed tail.
	Pairs  []CorrelationPair
	Top    []CorrelationPair
	Bottom []CorrelationPair

	// PerSubject maps a key to its correlations with every other subject,
	// self excluded, sorted descending by r.
	PerSubject map[string][]SubjectCorrelation

	// MeanR is the mean upper-triangle correlation; Cohesion its ladder.
	MeanR    float64
	Cohesion Cohesion
}

// Cohesion summarizes how strongly subjects move together overall.
type Cohesion string

const (
	CohesionStrong   Cohesion = "strong"   // mean r >= 0.5
	CohesionModerate Cohesion = "moderate" // mean r >= 0.3
	CohesionWeak     Cohesion = "weak"
)

func buildCorrelation(records []roster.StudentRecord, schema roster.Schema, p Params) CorrelationView {
	keys := schema.Keys()

	// Keep only subjects with at least one grade in the cohort; a wholly
	// missing column would force the complete-case row set to empty.
	var present []string
	for _, k := range keys {
		for _, r := range records {
			if r.HasGrade(k) {
				present = append(present, k)
				break
			}
		}
	}

	// Complete-case rows: every present subject graded. No imputation.
	var rows [][]float64
	for _, r := range records {
		row := make([]float64, len(present))
		ok := true
		for i, k := range present {
			v := r.Grade(k)
			if math.IsNaN(v) {
				ok = false
				break
			}
			row[i] = v
		}
		if ok {
			rows = append(rows, row)
		}
	}

	view := CorrelationView{CompleteRows: len(rows)}
	if len(rows) < p.MinCorrelationRows || len(present) < p.MinCorrelationSubjects {
		view.Insufficient = true
		return view
	}

	view.Subjects = present
	n := len(present)
	view.Matrix = make([][]float64, n)
	col := func(i int) []float64 {
		out := make([]float64, len(rows))
		for j, row := range rows {
			out[j] = row[i]
		}
		return out
	}
	cols := make([][]float64, n)
	for i := range present {
		cols[i] = col(i)
	}
	for i := 0; i < n; i++ {
		view.Matrix[i] = make([]float64, n)
		view.Matrix[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pearson(cols[i], cols[j])
			if math.IsNaN(r) {
				r = 0
			}
			view.Matrix[i][j] = r
			view.Matrix[j][i] = r
			view.Pairs = append(view.Pairs, CorrelationPair{
				A:        present[i],
				B:        present[j],
				R:        r,
				Strength: StrengthOf(r),
			})
		}
	}

	sort.SliceStable(view.Pairs, func(a, b int) bool {
		return math.Abs(view.Pairs[a].R) > math.Abs(view.Pairs[b].R)
	})
	top := p.TopBottomCount
	if top > len(view.Pairs) {
		top = len(view.Pairs)
	}
	view.Top = view.Pairs[:top]
	for i := len(view.Pairs) - 1; i >= len(view.Pairs)-top; i-- {
		view.Bottom = append(view.Bottom, view.Pairs[i])
	}

	view.PerSubject = map[string][]SubjectCorrelation{}
	for i, key := range present {
		var list []SubjectCorrelation
		for j, other := range present {
			if i == j {
				continue
			}
			r := view.Matrix[i][j]
			list = append(list, SubjectCorrelation{Other: other, R: r, Relation: relationOf(r)})
		}
		sort.SliceStable(list, func(a, b int) bool { return list[a].R > list[b].R })
		view.PerSubject[key] = list
	}

	var rs []float64
	for _, pair := range view.Pairs {
		rs = append(rs, pair.R)
	}
	view.MeanR = mean(rs)
	switch {
	case view.MeanR >= 0.5:
		view.Cohesion = CohesionStrong
	case view.MeanR >= 0.3:
		view.Cohesion = CohesionModerate
	default:
		view.Cohesion = CohesionWeak
	}
	return view
}
