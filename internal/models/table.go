// Package models defines data structures shared by the ingestor, normalizer and catalog.
package models

// RowError records a single input line that could not be parsed as tabular data.
type RowError struct {
	Err  error
	Line int
}

// RawTable is one input file as read from disk, before normalization.
// Rows are positional: Rows[i][j] is the cell under Headers[j].
type RawTable struct {
	Source    string
	Headers   []string
	Rows      [][]string
	RowErrors []RowError
}

// Cell returns the raw text at row r, column c and whether it was present.
// Rows shorter than the header report trailing cells as absent.
func (t *RawTable) Cell(r, c int) (string, bool) {
	if r < 0 || r >= len(t.Rows) || c < 0 {
		return "", false
	}

	row := t.Rows[r]
	if c >= len(row) {
		return "", false
	}

	return row[c], true
}
