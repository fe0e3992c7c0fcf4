// Package report renders derived views as a markdown document. It is the
// dashboard-facing presenter: every section stands alone, and undefined
// values print as an em dash rather than a fake zero.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/classpulse/classpulse-cli/internal/engine"
	"github.com/classpulse/classpulse-cli/internal/roster"
)

// Render produces the full term report for one set of derived views.
func Render(v *engine.DerivedViews, schema roster.Schema) string {
	var b strings.Builder

	b.WriteString("[TERM REPORT]\n")
	if len(v.Classes) > 0 {
		b.WriteString(fmt.Sprintf("Classes: %s\n", strings.Join(v.Classes, ", ")))
	} else {
		b.WriteString("Classes: all\n")
	}
	b.WriteString(fmt.Sprintf("Run: %s\n\n", v.RunID))

	writeOverview(&b, v)
	writeBrackets(&b, v)
	writeSubjects(&b, v)
	writeHighlights(&b, v, schema)
	writeOrientation(&b, v)
	writeLanguage(&b, v)
	writeCorrelation(&b, v, schema)
	writeFailure(&b, v)
	writeRisk(&b, v)
	writeRecommendations(&b, v)
	return b.String()
}

// num formats a value at two decimals, or an em dash when undefined.
func num(v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("%.2f", v)
}

func pct(v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("%.1f%%", v*100)
}

func writeOverview(b *strings.Builder, v *engine.DerivedViews) {
	b.WriteString("[OVERVIEW]\n")
	b.WriteString(fmt.Sprintf("- Students: %d\n", v.Overview.Students))
	b.WriteString(fmt.Sprintf("- Mean average: %s\n", num(v.Overview.MeanAverage)))
	b.WriteString(fmt.Sprintf("- Highest: %s, lowest: %s\n\n", num(v.Overview.MaxAverage), num(v.Overview.MinAverage)))
}

var bracketTitles = map[engine.Bracket]string{
	engine.BracketBelowAverage: "Below average (0 - 9.99)",
	engine.BracketAverage:      "Average (10 - 11.99)",
	engine.BracketGood:         "Good/excellent (12 - 20)",
}

func writeBrackets(b *strings.Builder, v *engine.DerivedViews) {
	b.WriteString("[GRADE BRACKETS]\n")
	for _, s := range v.Brackets.Stats {
		b.WriteString(fmt.Sprintf("- %s: %d students (%.1f%%), bracket mean %s\n",
			bracketTitles[s.Bracket], s.Count, s.Percent, num(s.MeanAverage)))
	}
	b.WriteString(fmt.Sprintf("- Success rate (>= 10): %.1f%%\n", v.Brackets.SuccessRate))
	b.WriteString(fmt.Sprintf("- Excellence rate (>= 12): %.1f%%\n\n", v.Brackets.ExcellenceRate))
}

func writeSubjects(b *strings.Builder, v *engine.DerivedViews) {
	b.WriteString("[SUBJECT STATISTICS]\n")
	b.WriteString("| Subject | Mean | Min | Max | Std | Count | Pass |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
	for _, s := range v.Subjects.Stats {
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %d | %s |\n",
			s.Label, num(s.Mean), num(s.Min), num(s.Max), num(s.Std), s.Count, pct(s.PassRate)))
	}
	if s := v.Subjects.Best; s != nil {
		b.WriteString(fmt.Sprintf("- Best performing: %s (mean %s)\n", s.Label, num(s.Mean)))
	}
	if s := v.Subjects.Worst; s != nil {
		b.WriteString(fmt.Sprintf("- Needs attention: %s (mean %s)\n", s.Label, num(s.Mean)))
	}
	if s := v.Subjects.MostConsistent; s != nil {
		b.WriteString(fmt.Sprintf("- Most consistent: %s (std %s)\n", s.Label, num(s.Std)))
	}
	if s := v.Subjects.MostVaried; s != nil {
		b.WriteString(fmt.Sprintf("- Most varied: %s (std %s)\n", s.Label, num(s.Std)))
	}
	b.WriteString("\n")
}

func writeHighlights(b *strings.Builder, v *engine.DerivedViews, schema roster.Schema) {
	b.WriteString("[TOP STUDENTS]\n")
	for i, h := range v.Highlights.Top {
		line := fmt.Sprintf("%d. %s (%s)", i+1, h.Name, num(h.Average))
		if h.BestSubject != "" {
			line += fmt.Sprintf(" — best: %s (%s)", schema.LabelFor(h.BestSubject), num(h.BestGrade))
		}
		if h.Struggling {
			line += fmt.Sprintf("; struggling in %s (%s)", schema.LabelFor(h.WorstSubject), num(h.WorstGrade))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n[BOTTOM STUDENTS]\n")
	for i, h := range v.Highlights.Bottom {
		b.WriteString(fmt.Sprintf("%d. %s (%s) — weakest: %s (%s)\n",
			i+1, h.Name, num(h.Average), schema.LabelFor(h.WorstSubject), num(h.WorstGrade)))
	}
	if len(v.Highlights.Borderline) > 0 {
		b.WriteString("\n[BORDERLINE 9-11]\n")
		for _, s := range v.Highlights.Borderline {
			status := "close to failing"
			if s.Passing {
				status = "barely passing"
			}
			b.WriteString(fmt.Sprintf("- %s (%s): %s; dragging subject %s (%s)\n",
				s.Name, num(s.Average), status, schema.LabelFor(s.DraggingSubject), num(s.DraggingGrade)))
			if !s.Passing {
				b.WriteString(fmt.Sprintf("  needs +%.1f total subject points to reach the pass mark\n", s.PointsNeeded))
			}
		}
	}
	b.WriteString("\n")
}

var cohortTiltText = map[engine.CohortTiltLabel]string{
	engine.CohortBalanced:         "balanced between science and humanities",
	engine.CohortSlightScience:    "slightly science-leaning",
	engine.CohortStrongScience:    "strongly science-leaning",
	engine.CohortSlightHumanities: "slightly humanities-leaning",
	engine.CohortStrongHumanities: "strongly humanities-leaning",
}

func writeOrientation(b *strings.Builder, v *engine.DerivedViews) {
	o := v.Orientation
	b.WriteString("[SCIENCE VS HUMANITIES]\n")
	b.WriteString(fmt.Sprintf("- Science average: %s, humanities average: %s (delta %s)\n",
		num(o.ScienceAvg), num(o.HumanitiesAvg), num(o.Delta)))
	b.WriteString(fmt.Sprintf("- Cohort is %s\n", cohortTiltText[o.CohortLabel]))
	b.WriteString(fmt.Sprintf("- Tilt counts: science %d, balanced %d, humanities %d\n",
		o.Counts[engine.TiltScience], o.Counts[engine.TiltBalanced], o.Counts[engine.TiltHumanities]))

	b.WriteString(fmt.Sprintf("- Enrichment average: %s\n", num(o.EnrichmentAvg)))
	b.WriteString("- Enrichment by tilt: ")
	parts := make([]string, 0, 3)
	for _, c := range o.Enrichment {
		parts = append(parts, fmt.Sprintf("%s %s (n=%d)", c.Tilt, num(c.Value), c.Count))
	}
	b.WriteString(strings.Join(parts, ", ") + "\n")
	for _, row := range o.Rows {
		cells := make([]string, 0, 3)
		for _, c := range row.Cells {
			cells = append(cells, fmt.Sprintf("%s %s", c.Tilt, num(c.Value)))
		}
		b.WriteString(fmt.Sprintf("  • %s: %s\n", row.Label, strings.Join(cells, ", ")))
	}
	b.WriteString("\n")
}

var severityText = map[engine.GapSeverity]string{
	engine.GapLarge:        "large gap: clear difficulty with foreign languages",
	engine.GapModerate:     "moderate gap between the mother tongue and foreign languages",
	engine.GapSmall:        "small gap: performance is relatively close across languages",
	engine.GapForeignAhead: "students perform better in foreign languages than in the mother tongue",
}

func writeLanguage(b *strings.Builder, v *engine.DerivedViews) {
	l := v.Language
	b.WriteString("[LANGUAGE PROFICIENCY]\n")
	b.WriteString(fmt.Sprintf("- %s: mean %s, pass %s\n", l.Mother.Label, num(l.Mother.Mean), pct(l.Mother.PassRate)))
	for _, f := range l.Foreign {
		b.WriteString(fmt.Sprintf("- %s: mean %s, pass %s\n", f.Label, num(f.Mean), pct(f.PassRate)))
	}
	b.WriteString(fmt.Sprintf("- Proficiency gap: %s (%s)\n", num(l.ProficiencyGap), severityText[l.Severity]))
	if !math.IsNaN(l.ForeignDelta) {
		b.WriteString(fmt.Sprintf("- Foreign language delta (%s - %s): %s\n",
			l.Foreign[0].Label, l.Foreign[1].Label, num(l.ForeignDelta)))
	}
	b.WriteString(fmt.Sprintf("- Gap buckets over %d students with a defined gap: mother tongue %d (%.1f%%), balanced %d (%.1f%%), foreign %d (%.1f%%)\n\n",
		l.Defined,
		l.Counts[engine.GapMotherTongue], l.Percents[engine.GapMotherTongue],
		l.Counts[engine.GapBalanced], l.Percents[engine.GapBalanced],
		l.Counts[engine.GapForeign], l.Percents[engine.GapForeign]))
}

var strengthText = map[engine.Strength]string{
	engine.StrengthVeryStrong: "very strong",
	engine.StrengthModerate:   "moderate",
	engine.StrengthWeak:       "weak",
	engine.StrengthNegligible: "negligible",
	engine.StrengthInverse:    "inverse",
}

func writeCorrelation(b *strings.Builder, v *engine.DerivedViews, schema roster.Schema) {
	c := v.Correlation
	b.WriteString("[SUBJECT CORRELATIONS]\n")
	if c.Insufficient {
		b.WriteString(fmt.Sprintf("- Insufficient data: %d complete rows\n\n", c.CompleteRows))
		return
	}
	b.WriteString(fmt.Sprintf("- Complete-case rows: %d\n", c.CompleteRows))
	b.WriteString("- Strongest pairs:\n")
	for _, pair := range c.Top {
		b.WriteString(fmt.Sprintf("  • %s ~ %s: r=%.2f (%s)\n",
			schema.LabelFor(pair.A), schema.LabelFor(pair.B), pair.R, strengthText[pair.Strength]))
	}
	b.WriteString("- Weakest pairs:\n")
	for _, pair := range c.Bottom {
		b.WriteString(fmt.Sprintf("  • %s ~ %s: r=%.2f (%s)\n",
			schema.LabelFor(pair.A), schema.LabelFor(pair.B), pair.R, strengthText[pair.Strength]))
	}
	b.WriteString(fmt.Sprintf("- Mean correlation: %.2f (%s cohesion)\n\n", c.MeanR, c.Cohesion))
}

func writeFailure(b *strings.Builder, v *engine.DerivedViews) {
	f := v.Failure
	b.WriteString("[FAILURE ANALYSIS]\n")
	for _, s := range f.Subjects {
		marker := ""
		if s.Critical {
			marker = " [critical]"
		}
		b.WriteString(fmt.Sprintf("- %s: %d failing (%s)%s\n", s.Label, s.FailCount, pct(s.FailRate), marker))
	}
	if len(f.MultiFail) > 0 {
		b.WriteString("- Multi-fail students:\n")
		for _, s := range f.MultiFail {
			b.WriteString(fmt.Sprintf("  • %s (%s): %d subjects\n", s.Name, num(s.Average), len(s.Failing)))
		}
	}
	b.WriteString("\n")
}

var tierTitles = map[engine.RiskTier]string{
	engine.TierAtRisk:         "At risk (< 9)",
	engine.TierBorderlineLow:  "Borderline low (9-10)",
	engine.TierBorderlineHigh: "Borderline high (10-11)",
	engine.TierExcellent:      "Excellent",
	engine.TierOutlierTop:     "Top outliers",
}

func writeRisk(b *strings.Builder, v *engine.DerivedViews) {
	r := v.Risk
	b.WriteString("[RISK TIERS]\n")
	b.WriteString(fmt.Sprintf("- Cohort mean %s, std %s\n", num(r.CohortMean), num(r.CohortStd)))
	order := []engine.RiskTier{
		engine.TierAtRisk, engine.TierBorderlineLow, engine.TierBorderlineHigh,
		engine.TierExcellent, engine.TierOutlierTop,
	}
	for _, tier := range order {
		members := r.Membership[tier]
		b.WriteString(fmt.Sprintf("- %s: %d\n", tierTitles[tier], len(members)))
	}
	b.WriteString("\n")
}

var recommendationText = map[string]string{
	engine.RecommendUrgentSupport:   "students need immediate intensive support",
	engine.RecommendCloseMonitoring: "students on the failing edge need targeted follow-up",
	engine.RecommendTeachingReview:  "critical subjects warrant a teaching review",
	engine.RecommendPeerTutoring:    "excellent students could anchor a peer-tutoring program",
}

func writeRecommendations(b *strings.Builder, v *engine.DerivedViews) {
	if len(v.Recommendations) == 0 {
		return
	}
	b.WriteString("[RECOMMENDATIONS]\n")
	for _, rec := range v.Recommendations {
		b.WriteString(fmt.Sprintf("- %d %s\n", rec.Count, recommendationText[rec.Kind]))
	}
}
