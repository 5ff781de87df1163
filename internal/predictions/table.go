// Package predictions reads and writes the per-image prediction table produced
// by the species classifier.
//
// The table is kept as raw CSV cells so that columns the sorter does not know
// about survive the round trip untouched. Typed accessors cover the columns
// routing depends on: location, pred_<rank>, and score_<rank>.
package predictions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const (
	// LocationColumn holds the image path relative to the image root.
	LocationColumn = "location"
	// ErrorColumn is appended in keep-going runs to record per-row failures.
	ErrorColumn = "route_error"
)

// ErrMissingColumns reports a header that lacks columns routing needs.
var ErrMissingColumns = errors.New("prediction csv is missing required columns")

// LabelColumn names the label column for a 1-based rank.
func LabelColumn(rank int) string { return fmt.Sprintf("pred_%d", rank) }

// ScoreColumn names the score column for a 1-based rank.
func ScoreColumn(rank int) string { return fmt.Sprintf("score_%d", rank) }

// PathColumn names the destination column written for a 1-based rank.
func PathColumn(rank int) string { return fmt.Sprintf("pred_path_%d", rank) }

// PathColumns lists pred_path_1..pred_path_n.
func PathColumns(n int) []string {
	return lo.Map(lo.RangeFrom(1, n), func(rank int, _ int) string { return PathColumn(rank) })
}

// Table is an in-memory prediction CSV.
type Table struct {
	header []string
	rows   [][]string
	index  map[string]int
}

// Load reads the CSV at path and checks that location, pred_i, and score_i
// exist for every rank up to maxRank.
func Load(path string, maxRank int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open predictions: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read predictions %s: %w", path, err)
	}
	if err := t.Require(maxRank); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses CSV data whose first record is the header.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty csv: header row required")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	t := &Table{header: header, index: make(map[string]int, len(header))}
	for i, name := range header {
		name = strings.TrimSpace(name)
		header[i] = name
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	for i, rec := range records[1:] {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("csv row %d has %d fields, header has %d", i+1, len(rec), len(header))
		}
		row := make([]string, len(header))
		copy(row, rec)
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// Require reports every column routing needs for ranks 1..maxRank that the
// header lacks.
func (t *Table) Require(maxRank int) error {
	want := []string{LocationColumn}
	for rank := 1; rank <= maxRank; rank++ {
		want = append(want, LabelColumn(rank), ScoreColumn(rank))
	}
	missing := lo.Filter(want, func(name string, _ int) bool { return !t.Has(name) })
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Header returns a copy of the column names.
func (t *Table) Header() []string { return append([]string(nil), t.header...) }

// Has reports whether the named column exists.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Value returns the raw cell, or "" when the column is absent.
func (t *Table) Value(row int, column string) string {
	col, ok := t.index[column]
	if !ok {
		return ""
	}
	return t.rows[row][col]
}

// Location returns the image path of a row relative to the image root.
func (t *Table) Location(row int) string {
	return strings.TrimSpace(t.Value(row, LocationColumn))
}

// Label returns the predicted label for a 1-based rank.
func (t *Table) Label(row, rank int) string {
	return strings.TrimSpace(t.Value(row, LabelColumn(rank)))
}

// Score returns the confidence for a 1-based rank. Empty cells are NaN so
// they never clear a threshold.
func (t *Table) Score(row, rank int) (float64, error) {
	raw := strings.TrimSpace(t.Value(row, ScoreColumn(rank)))
	if raw == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid score %q", ScoreColumn(rank), raw)
	}
	return v, nil
}

// SetColumn replaces the named column, or appends it when absent. values
// must hold one entry per row.
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.rows) {
		return fmt.Errorf("column %s: got %d values for %d rows", name, len(values), len(t.rows))
	}
	col, ok := t.index[name]
	if !ok {
		col = len(t.header)
		t.header = append(t.header, name)
		t.index[name] = col
		for i := range t.rows {
			t.rows[i] = append(t.rows[i], "")
		}
	}
	for i, v := range values {
		t.rows[i][col] = v
	}
	return nil
}

// Encode writes the table as CSV.
func (t *Table) Encode(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.header); err != nil {
		return err
	}
	if err := writer.WriteAll(t.rows); err != nil {
		return err
	}
	return writer.Error()
}

// Save writes the table to path through a temporary file in the same
// directory, so readers never observe a partial CSV.
func (t *Table) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp csv: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := t.Encode(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod csv: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename csv: %w", err)
	}
	return nil
}
