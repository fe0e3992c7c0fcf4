package engine

import (
	"math"

	"github.com/classpulse/classpulse-cli/internal/roster"
)

// student builds a record with an overall average and optional grades.
func student(name, class string, avg float64, grades map[string]float64) roster.StudentRecord {
	if grades == nil {
		grades = map[string]float64{}
	}
	return roster.StudentRecord{
		Name:    name,
		Class:   class,
		Grades:  grades,
		Average: avg,
	}
}

// cohortOf builds n students with the given averages, all in one class.
func cohortOf(averages ...float64) []roster.StudentRecord {
	out := make([]roster.StudentRecord, len(averages))
	for i, a := range averages {
		out[i] = student(name(i), "1A", a, nil)
	}
	return out
}

func name(i int) string {
	return string(rune('A' + i))
}

var nan = math.NaN()
