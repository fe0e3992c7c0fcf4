package roster

import "math"

// StudentRecord is one normalized row of the term table. Grades are NaN when
// missing; Average is the source-provided overall average (المعدل), not a
// value the engine derives.
type StudentRecord struct {
	Rank      string
	StudentID string
	Name      string
	Class     string
	Grades    map[string]float64
	Average   float64
}

// Grade returns the grade for a subject key, NaN when absent.
func (r StudentRecord) Grade(key string) float64 {
	if v, ok := r.Grades[key]; ok {
		return v
	}
	return math.NaN()
}

// HasGrade reports whether the student has a non-missing grade for key.
func (r StudentRecord) HasGrade(key string) bool {
	v, ok := r.Grades[key]
	return ok && !math.IsNaN(v)
}

// HasAverage reports whether the overall average is present.
func (r StudentRecord) HasAverage() bool {
	return !math.IsNaN(r.Average)
}

// FilterClasses returns the records belonging to the given class labels.
// An empty selection means the whole school.
func FilterClasses(records []StudentRecord, classes []string) []StudentRecord {
	if len(classes) == 0 {
		return records
	}
	want := make(map[string]bool, len(classes))
	for _, c := range classes {
		want[c] = true
	}
	out := make([]StudentRecord, 0, len(records))
	for _, r := range records {
		if want[r.Class] {
			out = append(out, r)
		}
	}
	return out
}

// Classes returns the distinct class labels in first-seen order.
func Classes(records []StudentRecord) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range records {
		if r.Class != "" && !seen[r.Class] {
			seen[r.Class] = true
			out = append(out, r.Class)
		}
	}
	return out
}
