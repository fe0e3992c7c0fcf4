package workbook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/classpulse/classpulse-cli/internal/roster"
)

// ReadCSV reads a single-class delimited export. The class label comes from
// the file name; the header is assumed to be at HeaderRow like the xlsx
// export.
func ReadCSV(path string, opt Options) ([]roster.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = sniffDelimiter(path)

	class := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	table := roster.RawTable{Class: class}
	rowIdx := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", rowIdx+1, err)
		}
		switch {
		case rowIdx < opt.HeaderRow:
			// banner rows above the table
		case rowIdx == opt.HeaderRow:
			table.Header = append([]string{}, rec...)
		default:
			table.Rows = append(table.Rows, append([]string{}, rec...))
		}
		rowIdx++
	}
	if len(table.Header) == 0 {
		return nil, fmt.Errorf("csv %s: no header row", filepath.Base(path))
	}
	return []roster.RawTable{table}, nil
}

// Read dispatches on the file extension.
func Read(path string, opt Options) ([]roster.RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path, opt)
	case ".csv", ".tsv":
		return ReadCSV(path, opt)
	default:
		return nil, fmt.Errorf("unsupported input %s: want .xlsx, .csv or .tsv", filepath.Base(path))
	}
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
