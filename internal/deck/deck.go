package deck

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/classpulse/classpulse-cli/internal/engine"
	"github.com/classpulse/classpulse-cli/internal/roster"
)

// Slide is one page of the deck: a title, bullet lines, and optionally a
// rendered chart. When the renderer cannot produce the chart the slide keeps
// its lines and drops the image; the deck never fails over a chart.
type Slide struct {
	Title string
	Lines []string
	// Image is the encoded PNG, nil when the chart was skipped.
	Image []byte
	// ImageName is the file name the image is written under.
	ImageName string
}

// Deck is the ordered slide list for one analysis run.
type Deck struct {
	Title  string
	RunID  string
	Slides []Slide
	// SkippedCharts names the charts that failed to render.
	SkippedCharts []string
}

// Build composes the deck from the derived views. Renderer failures degrade
// the affected slide to text; a nil renderer means text-only throughout.
func Build(v *engine.DerivedViews, schema roster.Schema, renderer ImageRenderer) *Deck {
	if renderer == nil {
		renderer = Unavailable()
	}
	b := &builder{views: v, schema: schema, renderer: renderer}
	d := &Deck{Title: deckTitle(v), RunID: v.RunID}

	d.Slides = append(d.Slides, b.titleSlide(d.Title))
	d.Slides = append(d.Slides, b.bracketSlide())
	d.Slides = append(d.Slides, b.subjectSlide())
	d.Slides = append(d.Slides, b.orientationSlide())
	d.Slides = append(d.Slides, b.languageSlide())
	d.Slides = append(d.Slides, b.correlationSlide())
	d.Slides = append(d.Slides, b.failureSlide())
	d.Slides = append(d.Slides, b.riskSlide())
	d.Slides = append(d.Slides, b.closingSlide())
	d.SkippedCharts = b.skipped
	return d
}

func deckTitle(v *engine.DerivedViews) string {
	if len(v.Classes) == 0 {
		return "Term results: whole school"
	}
	return "Term results: " + strings.Join(v.Classes, ", ")
}

type builder struct {
	views    *engine.DerivedViews
	schema   roster.Schema
	renderer ImageRenderer
	skipped  []string
}

// chart renders a spec, recording a skip instead of failing.
func (b *builder) chart(spec ChartSpec) []byte {
	img, err := b.renderer.Render(spec)
	if err != nil {
		b.skipped = append(b.skipped, spec.Title)
		return nil
	}
	return img
}

func (b *builder) titleSlide(title string) Slide {
	o := b.views.Overview
	return Slide{
		Title: title,
		Lines: []string{
			fmt.Sprintf("Students: %d", o.Students),
			"Cohort mean: " + num(o.MeanAverage),
			"Range: " + num(o.MinAverage) + " to " + num(o.MaxAverage),
			"Run " + b.views.RunID,
		},
	}
}

func (b *builder) bracketSlide() Slide {
	v := b.views.Brackets
	names := map[engine.Bracket]string{
		engine.BracketBelowAverage: "Below average",
		engine.BracketAverage:      "Average",
		engine.BracketGood:         "Good / excellent",
	}
	spec := ChartSpec{Kind: ChartPie, Title: "Grade brackets"}
	s := Slide{Title: "Grade brackets", ImageName: "brackets.png"}
	for _, st := range v.Stats {
		spec.Values = append(spec.Values, ChartValue{Label: names[st.Bracket], Value: float64(st.Count)})
		s.Lines = append(s.Lines, fmt.Sprintf("%s: %d (%s)", names[st.Bracket], st.Count, pct(st.Percent)))
	}
	s.Lines = append(s.Lines,
		"Success rate: "+pct(v.SuccessRate),
		"Excellence rate: "+pct(v.ExcellenceRate))
	if v.Graded > 0 {
		s.Image = b.chart(spec)
	}
	return s
}

func (b *builder) subjectSlide() Slide {
	v := b.views.Subjects
	spec := ChartSpec{Kind: ChartBar, Title: "Subject means", RefLine: 10, MaxValue: 20}
	s := Slide{Title: "Subject statistics", ImageName: "subjects.png"}
	for _, st := range v.Stats {
		spec.Values = append(spec.Values, ChartValue{Label: st.Label, Value: st.Mean})
	}
	if v.Best != nil {
		s.Lines = append(s.Lines, "Strongest subject: "+v.Best.Label+" ("+num(v.Best.Mean)+")")
	}
	if v.Worst != nil {
		s.Lines = append(s.Lines, "Weakest subject: "+v.Worst.Label+" ("+num(v.Worst.Mean)+")")
	}
	if v.MostConsistent != nil {
		s.Lines = append(s.Lines, "Most consistent: "+v.MostConsistent.Label)
	}
	if v.MostVaried != nil {
		s.Lines = append(s.Lines, "Most varied: "+v.MostVaried.Label)
	}
	if len(spec.Values) > 0 {
		s.Image = b.chart(spec)
	}
	return s
}

func (b *builder) orientationSlide() Slide {
	v := b.views.Orientation
	s := Slide{Title: "Science vs humanities", ImageName: "orientation.png"}
	s.Lines = append(s.Lines,
		"Science average: "+num(v.ScienceAvg),
		"Humanities average: "+num(v.HumanitiesAvg),
		"Delta: "+num(v.Delta)+" ("+tiltText(v.CohortLabel)+")",
		fmt.Sprintf("Science-leaning: %d, balanced: %d, humanities-leaning: %d",
			v.Counts[engine.TiltScience], v.Counts[engine.TiltBalanced], v.Counts[engine.TiltHumanities]))

	spec := ChartSpec{Kind: ChartBar, Title: "Group subject means", RefLine: 10, MaxValue: 20}
	for _, k := range append(append([]string{}, b.schema.ScienceKeys...), b.schema.HumanitiesKeys...) {
		if m, ok := v.PerSubjectAvg[k]; ok {
			spec.Values = append(spec.Values, ChartValue{Label: b.schema.LabelFor(k), Value: m})
		}
	}
	if len(spec.Values) > 0 {
		s.Image = b.chart(spec)
	}
	return s
}

func (b *builder) languageSlide() Slide {
	v := b.views.Language
	s := Slide{Title: "Language proficiency", ImageName: "language.png"}
	s.Lines = append(s.Lines, v.Mother.Label+": "+num(v.Mother.Mean))
	spec := ChartSpec{Kind: ChartBar, Title: "Language means", RefLine: 10, MaxValue: 20}
	spec.Values = append(spec.Values, ChartValue{Label: v.Mother.Label, Value: v.Mother.Mean})
	for _, f := range v.Foreign {
		s.Lines = append(s.Lines, f.Label+": "+num(f.Mean))
		spec.Values = append(spec.Values, ChartValue{Label: f.Label, Value: f.Mean})
	}
	s.Lines = append(s.Lines, "Proficiency gap: "+num(v.ProficiencyGap)+" ("+severityText(v.Severity)+")")
	if v.Defined > 0 {
		s.Lines = append(s.Lines, fmt.Sprintf(
			"Stronger in mother tongue: %d, balanced: %d, stronger in foreign: %d",
			v.Counts[engine.GapMotherTongue], v.Counts[engine.GapBalanced], v.Counts[engine.GapForeign]))
	}
	s.Image = b.chart(spec)
	return s
}

func (b *builder) correlationSlide() Slide {
	v := b.views.Correlation
	s := Slide{Title: "Subject correlations"}
	if v.Insufficient {
		s.Lines = append(s.Lines, fmt.Sprintf(
			"Not enough complete records for a reliable analysis (%d complete rows).", v.CompleteRows))
		return s
	}
	s.Lines = append(s.Lines,
		fmt.Sprintf("Complete records: %d", v.CompleteRows),
		"Mean correlation: "+num(v.MeanR)+" ("+string(v.Cohesion)+" cohesion)")
	for i, p := range v.Top {
		if i >= 3 {
			break
		}
		s.Lines = append(s.Lines, fmt.Sprintf("%s / %s: r = %s (%s)",
			b.schema.LabelFor(p.A), b.schema.LabelFor(p.B), num(p.R), strengthText(p.Strength)))
	}
	return s
}

func (b *builder) failureSlide() Slide {
	v := b.views.Failure
	s := Slide{Title: "Failure analysis", ImageName: "failures.png"}
	spec := ChartSpec{Kind: ChartBar, Title: "Fail rate by subject", MaxValue: 100}
	for _, sf := range v.Subjects {
		spec.Values = append(spec.Values, ChartValue{Label: sf.Label, Value: sf.FailRate * 100})
	}
	if len(v.Critical) > 0 {
		var labels []string
		for _, k := range v.Critical {
			labels = append(labels, b.schema.LabelFor(k))
		}
		s.Lines = append(s.Lines, "Critical subjects: "+strings.Join(labels, ", "))
	} else {
		s.Lines = append(s.Lines, "No subject fails more than half its students.")
	}
	s.Lines = append(s.Lines, fmt.Sprintf("Students failing several subjects: %d", len(v.MultiFail)))
	if v.WorstCase != nil {
		s.Lines = append(s.Lines, fmt.Sprintf("Most affected: %s (%s), %d subjects below the mark",
			v.WorstCase.Name, v.WorstCase.Class, len(v.WorstCase.Failing)))
	}
	if len(spec.Values) > 0 {
		s.Image = b.chart(spec)
	}
	return s
}

func (b *builder) riskSlide() Slide {
	v := b.views.Risk
	s := Slide{Title: "Students at risk"}
	s.Lines = append(s.Lines, "Cohort mean "+num(v.CohortMean)+", spread "+num(v.CohortStd))
	tiers := []struct {
		tier  engine.RiskTier
		label string
	}{
		{engine.TierAtRisk, "At risk"},
		{engine.TierBorderlineLow, "Borderline, below the mark"},
		{engine.TierBorderlineHigh, "Borderline, barely passing"},
		{engine.TierExcellent, "Excellent"},
		{engine.TierOutlierTop, "Top outliers"},
	}
	for _, t := range tiers {
		members := v.Membership[t.tier]
		line := fmt.Sprintf("%s: %d", t.label, len(members))
		if len(members) > 0 && len(members) <= 4 {
			var names []string
			for _, m := range members {
				names = append(names, m.Name)
			}
			line += " (" + strings.Join(names, ", ") + ")"
		}
		s.Lines = append(s.Lines, line)
	}
	return s
}

func (b *builder) closingSlide() Slide {
	s := Slide{Title: "Recommendations"}
	for _, r := range b.views.Recommendations {
		s.Lines = append(s.Lines, fmt.Sprintf("%s (%d)", recommendationText(r.Kind), r.Count))
	}
	if len(s.Lines) == 0 {
		s.Lines = append(s.Lines, "No intervention flags raised for this cohort.")
	}
	return s
}

// WriteDir writes the deck as a slides.md plus one PNG per rendered chart.
func WriteDir(d *Deck, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create deck dir: %w", err)
	}
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n", d.Title)
	for _, s := range d.Slides {
		fmt.Fprintf(&md, "\n---\n\n## %s\n\n", s.Title)
		for _, line := range s.Lines {
			fmt.Fprintf(&md, "- %s\n", line)
		}
		if s.Image != nil && s.ImageName != "" {
			if err := os.WriteFile(filepath.Join(dir, s.ImageName), s.Image, 0o644); err != nil {
				return fmt.Errorf("write chart %s: %w", s.ImageName, err)
			}
			fmt.Fprintf(&md, "\n![%s](%s)\n", s.Title, s.ImageName)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "slides.md"), []byte(md.String()), 0o644); err != nil {
		return fmt.Errorf("write slides: %w", err)
	}
	return nil
}

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
	return fmt.Sprintf("%.1f%%", v)
}

func tiltText(l engine.CohortTiltLabel) string {
	switch l {
	case engine.CohortStrongScience:
		return "strong science orientation"
	case engine.CohortSlightScience:
		return "slight science orientation"
	case engine.CohortStrongHumanities:
		return "strong humanities orientation"
	case engine.CohortSlightHumanities:
		return "slight humanities orientation"
	default:
		return "balanced"
	}
}

func severityText(s engine.GapSeverity) string {
	switch s {
	case engine.GapLarge:
		return "large gap"
	case engine.GapModerate:
		return "moderate gap"
	case engine.GapSmall:
		return "small gap"
	default:
		return "foreign languages ahead"
	}
}

func strengthText(s engine.Strength) string {
	switch s {
	case engine.StrengthVeryStrong:
		return "very strong"
	case engine.StrengthModerate:
		return "moderate"
	case engine.StrengthWeak:
		return "weak"
	case engine.StrengthNegligible:
		return "negligible"
	default:
		return "inverse"
	}
}

func recommendationText(kind string) string {
	switch kind {
	case engine.RecommendUrgentSupport:
		return "Set up urgent support sessions for at-risk students"
	case engine.RecommendCloseMonitoring:
		return "Monitor borderline students closely this term"
	case engine.RecommendTeachingReview:
		return "Review teaching approach in critical subjects"
	case engine.RecommendPeerTutoring:
		return "Recruit top performers for peer tutoring"
	default:
		return kind
	}
}
