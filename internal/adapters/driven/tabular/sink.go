package tabular

import (
	"strings"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/core/ports/driven"
)

// Ensure TableSink implements the interface.
var _ driven.AnnotationSink = (*TableSink)(nil)

// SinkColumns names the status, reason, and comment columns a TableSink
// writes to. All three are configurable because existing QA sheets use
// varying headers.
type SinkColumns struct {
	Status  string
	Reason  string
	Comment string
}

// DefaultSinkColumns returns the standard column names.
func DefaultSinkColumns() SinkColumns {
	return SinkColumns{
		Status:  domain.ColumnLeadStatus,
		Reason:  domain.ColumnDQReason,
		Comment: domain.ColumnQAComment,
	}
}

// TableSink is an annotation sink writing directly into a loaded Table,
// so that saving the table afterwards persists every annotation.
type TableSink struct {
	table   *domain.Table
	columns SinkColumns
}

// NewTableSink creates a sink over table. Blank column names fall back
// to the defaults.
func NewTableSink(table *domain.Table, columns SinkColumns) *TableSink {
	defaults := DefaultSinkColumns()
	if columns.Status == "" {
		columns.Status = defaults.Status
	}
	if columns.Reason == "" {
		columns.Reason = defaults.Reason
	}
	if columns.Comment == "" {
		columns.Comment = defaults.Comment
	}
	return &TableSink{table: table, columns: columns}
}

// EnsureColumn appends the named column to the table when missing.
func (s *TableSink) EnsureColumn(name string) error {
	switch name {
	case domain.ColumnLeadStatus:
		name = s.columns.Status
	case domain.ColumnDQReason:
		name = s.columns.Reason
	case domain.ColumnQAComment:
		name = s.columns.Comment
	}
	s.table.EnsureColumn(name)
	return nil
}

// SetCell writes a cell value, unconditionally.
func (s *TableSink) SetCell(row int, column, value string) error {
	s.table.Set(row, column, value)
	return nil
}

// Status returns the trimmed status of a row.
func (s *TableSink) Status(row int) string {
	return strings.TrimSpace(s.table.Value(row, s.columns.Status))
}

// SetStatusIfAbsent writes the status unless the cell already holds
// one, so pre-marked rows and earlier checks keep their verdict.
func (s *TableSink) SetStatusIfAbsent(row int, status string) error {
	if s.Status(row) == "" {
		s.table.Set(row, s.columns.Status, status)
	}
	return nil
}

// SetReasonIfAbsent writes the reason unless the cell already holds
// one.
func (s *TableSink) SetReasonIfAbsent(row int, reason string) error {
	if strings.TrimSpace(s.table.Value(row, s.columns.Reason)) == "" {
		s.table.Set(row, s.columns.Reason, reason)
	}
	return nil
}

// AppendComment appends to the comment cell, ", " joined, skipping
// text already present as a substring.
func (s *TableSink) AppendComment(row int, comment string) error {
	existing := strings.TrimSpace(s.table.Value(row, s.columns.Comment))
	switch {
	case existing == "":
		s.table.Set(row, s.columns.Comment, comment)
	case strings.Contains(existing, comment):
	default:
		s.table.Set(row, s.columns.Comment, existing+", "+comment)
	}
	return nil
}
