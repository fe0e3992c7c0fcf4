package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/classpulse/classpulse-cli/internal/engine"
	"github.com/classpulse/classpulse-cli/internal/roster"
)

// utf8BOM makes the Arabic headers open correctly in spreadsheet tools.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the normalized records as a flat CSV: identity columns,
// one column per schema subject, the overall average, and the derived
// bracket. Missing grades become empty cells, never zeros.
func WriteCSV(w io.Writer, records []roster.StudentRecord, schema roster.Schema, p engine.Params) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)

	header := []string{roster.LabelClass, roster.LabelName}
	for _, subj := range schema.Subjects {
		header = append(header, subj.Label)
	}
	header = append(header, roster.LabelAverage, "bracket")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range records {
		row := []string{r.Class, r.Name}
		for _, subj := range schema.Subjects {
			row = append(row, cell(r.Grade(subj.Key)))
		}
		row = append(row, cell(r.Average), string(p.BracketOf(r.Average)))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row for %s: %w", r.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes the export to a file path.
func WriteCSVFile(path string, records []roster.StudentRecord, schema roster.Schema, p engine.Params) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer f.Close()
	if err := WriteCSV(f, records, schema, p); err != nil {
		return err
	}
	return f.Close()
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
