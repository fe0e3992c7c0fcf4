package roster

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNoNameColumn is returned when the student-name column is missing from a
// sheet header. Without it no row can be attributed to a student, so the
// whole input is structurally unusable rather than merely sparse.
var ErrNoNameColumn = errors.New("student name column not found")

// RawTable is one sheet of the uploaded workbook as handed over by the
// ingestion layer: header labels and untyped string cells.
type RawTable struct {
	Class  string
	Header []string
	Rows   [][]string
}

// ParseGrade coerces a raw cell into a grade. The export writes decimals
// with a comma separator; anything unparsable counts as missing.
func ParseGrade(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return math.NaN()
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Normalize converts a raw sheet into student records. Rows without a
// student name are dropped entirely; malformed grade cells become NaN.
// Out-of-range values pass through untouched.
func Normalize(table RawTable, schema Schema) ([]StudentRecord, error) {
	idx := map[string]int{}
	for i, h := range table.Header {
		idx[strings.TrimSpace(h)] = i
	}
	nameCol, ok := idx[LabelName]
	if !ok {
		return nil, fmt.Errorf("sheet %q: %w", table.Class, ErrNoNameColumn)
	}

	cell := func(row []string, col int, ok bool) string {
		if !ok || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	rankCol, rankOK := idx[LabelRank]
	idCol, idOK := idx[LabelStudentID]
	avgCol, avgOK := idx[LabelAverage]

	out := make([]StudentRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		name := cell(row, nameCol, true)
		if name == "" {
			continue
		}
		rec := StudentRecord{
			Rank:      cell(row, rankCol, rankOK),
			StudentID: cell(row, idCol, idOK),
			Name:      name,
			Class:     table.Class,
			Grades:    make(map[string]float64, len(schema.Subjects)),
			Average:   math.NaN(),
		}
		for _, subj := range schema.Subjects {
			col, ok := idx[subj.Label]
			rec.Grades[subj.Key] = ParseGrade(cell(row, col, ok))
		}
		if avgOK {
			rec.Average = ParseGrade(cell(row, avgCol, true))
		}
		out = append(out, rec)
	}
	return out, nil
}

// NormalizeAll flattens a multi-sheet workbook into one record list.
func NormalizeAll(tables []RawTable, schema Schema) ([]StudentRecord, error) {
	var out []StudentRecord
	for _, t := range tables {
		recs, err := Normalize(t, schema)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}
