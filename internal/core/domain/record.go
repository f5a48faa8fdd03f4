package domain

import "strings"

// Record is one row of a lead or delivery table: a mapping from column
// name to raw cell value. Records are produced by a table reader and
// are immutable from the engine's point of view; annotations go through
// the AnnotationSink, never through the Record.
type Record struct {
	// Row is the 1-based spreadsheet row this record came from. Data
	// rows start at 2 (row 1 holds the headers), matching how the row
	// is named in violation messages.
	Row int

	// Values maps column name to the raw cell value.
	Values map[string]string
}

// Get returns the trimmed value of a column, or "" when the column is
// absent.
func (r Record) Get(column string) string {
	return strings.TrimSpace(r.Values[column])
}

// Table is an ordered collection of records with a header row. Column
// order is preserved so annotated output keeps the input layout.
type Table struct {
	Headers []string
	Records []Record
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// EnsureColumn appends the named column if it is not already present.
func (t *Table) EnsureColumn(name string) {
	if !t.HasColumn(name) {
		t.Headers = append(t.Headers, name)
	}
}

// Set writes a cell value on the record at the given spreadsheet row.
// Unknown rows are ignored; the engine only ever writes rows it was
// handed.
func (t *Table) Set(row int, column, value string) {
	i := t.indexOf(row)
	if i < 0 {
		return
	}
	if t.Records[i].Values == nil {
		t.Records[i].Values = make(map[string]string)
	}
	t.Records[i].Values[column] = value
}

// Value reads a cell value at the given spreadsheet row.
func (t *Table) Value(row int, column string) string {
	i := t.indexOf(row)
	if i < 0 {
		return ""
	}
	return t.Records[i].Values[column]
}

// indexOf resolves a spreadsheet row to a record index. Rows are
// normally assigned contiguously from 2, so the direct offset is tried
// before falling back to a scan.
func (t *Table) indexOf(row int) int {
	if i := row - 2; i >= 0 && i < len(t.Records) && t.Records[i].Row == row {
		return i
	}
	for i := range t.Records {
		if t.Records[i].Row == row {
			return i
		}
	}
	return -1
}
