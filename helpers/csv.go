package helpers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spektr-org/permap/schema"
	"github.com/spektr-org/permap/table"
)

// ============================================================================
// CSV HELPER — Parses CSV data into a performance table
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, archive, HTTP).
// This helper converts the raw bytes into a table.Table using the schema:
// schema levels become index levels, schema columns become value columns,
// other columns are ignored.
// ============================================================================

var (
	ErrMissingColumn = errors.New("helpers: column not found in CSV header")
	ErrBadValue      = errors.New("helpers: malformed numeric value")
	ErrDuplicateRow  = errors.New("helpers: duplicate index entry")
)

// ParseCSV parses CSV bytes into a table using sch for classification.
// Every row must hold a number in each schema column; the index tuples must
// be unique.
func ParseCSV(data []byte, sch schema.Config) (*table.Table, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.TrimLeadingSpace = true

	// Read header
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	position := make(map[string]int, len(headers))
	for i, h := range headers {
		position[strings.TrimSpace(h)] = i
	}

	// Build schema key → column index mapping
	locate := func(key, header string) (int, error) {
		if i, ok := position[header]; ok {
			return i, nil
		}
		if i, ok := position[key]; ok {
			return i, nil
		}
		return 0, fmt.Errorf("%w: %q", ErrMissingColumn, header)
	}
	levelIdx := make([]int, len(sch.Levels))
	for k, l := range sch.Levels {
		if levelIdx[k], err = locate(l.Key, l.Header); err != nil {
			return nil, err
		}
	}
	colIdx := make([]int, len(sch.Columns))
	for k, c := range sch.Columns {
		if colIdx[k], err = locate(c.Key, c.Header); err != nil {
			return nil, err
		}
	}

	tbl, err := table.New(sch.LevelKeys(), sch.ColumnKeys())
	if err != nil {
		return nil, err
	}

	// Read rows
	seen := make(map[string]int)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		index, err := pick(row, levelIdx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		values, err := pick(row, colIdx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		key := fmt.Sprint(index)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: line %d repeats line %d %v", ErrDuplicateRow, line, prev, index)
		}
		seen[key] = line
		if err := tbl.Append(index, values); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

// ParseCSVAuto discovers the schema of data, then parses it. levels forces
// columns to be index levels, by header or key.
func ParseCSVAuto(data []byte, levels ...string) (*table.Table, *schema.Config, error) {
	opts := schema.DefaultDiscoverOptions()
	opts.SampleSize = 0
	opts.Levels = levels
	sch, err := schema.DiscoverFromCSV(data, opts)
	if err != nil {
		return nil, nil, err
	}
	tbl, err := ParseCSV(data, *sch)
	if err != nil {
		return nil, nil, err
	}
	return tbl, sch, nil
}

// pick parses the fields of row at the given positions.
func pick(row []string, idx []int) ([]float64, error) {
	out := make([]float64, len(idx))
	for k, i := range idx {
		if i >= len(row) {
			return nil, fmt.Errorf("%w: missing field %d", ErrBadValue, i+1)
		}
		s := strings.ReplaceAll(strings.TrimSpace(row[i]), ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadValue, row[i])
		}
		out[k] = f
	}
	return out, nil
}
