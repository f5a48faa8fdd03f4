// Package memory provides in-memory implementations of the driven
// storage ports, used in tests and as a staging sink before writing
// annotated output back to disk.
package memory

import (
	"strings"
	"sync"

	"github.com/custodia-labs/leadscreen-cli/internal/core/ports/driven"
)

// Ensure AnnotationSink implements the interface.
var _ driven.AnnotationSink = (*AnnotationSink)(nil)

// annotation is the screening state of one row.
type annotation struct {
	status  string
	reason  string
	comment string
	cells   map[string]string
}

// AnnotationSink is an in-memory implementation of
// driven.AnnotationSink. It records statuses, reasons, comments and
// cell writes per row without touching any table.
type AnnotationSink struct {
	mu      sync.RWMutex
	columns []string
	rows    map[int]*annotation
}

// NewAnnotationSink creates an empty in-memory annotation sink.
func NewAnnotationSink() *AnnotationSink {
	return &AnnotationSink{rows: make(map[int]*annotation)}
}

// EnsureColumn registers an output column. Registration is idempotent.
func (s *AnnotationSink) EnsureColumn(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.columns {
		if c == name {
			return nil
		}
	}
	s.columns = append(s.columns, name)
	return nil
}

// SetCell writes a cell value for a row, unconditionally.
func (s *AnnotationSink) SetCell(row int, column, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.row(row)
	a.cells[column] = value
	return nil
}

// Status returns the current status of a row, "" when unset.
func (s *AnnotationSink) Status(row int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.rows[row]; ok {
		return a.status
	}
	return ""
}

// SetStatusIfAbsent sets the row status unless one is already present.
func (s *AnnotationSink) SetStatusIfAbsent(row int, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.row(row)
	if a.status == "" {
		a.status = status
	}
	return nil
}

// SetReasonIfAbsent sets the row reason unless one is already present.
func (s *AnnotationSink) SetReasonIfAbsent(row int, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.row(row)
	if a.reason == "" {
		a.reason = reason
	}
	return nil
}

// AppendComment appends to the row comment, ", " joined, skipping text
// that is already present as a substring.
func (s *AnnotationSink) AppendComment(row int, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.row(row)
	switch {
	case a.comment == "":
		a.comment = comment
	case strings.Contains(a.comment, comment):
	default:
		a.comment += ", " + comment
	}
	return nil
}

// Reason returns the recorded reason of a row, "" when unset.
func (s *AnnotationSink) Reason(row int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.rows[row]; ok {
		return a.reason
	}
	return ""
}

// Comment returns the accumulated comment of a row.
func (s *AnnotationSink) Comment(row int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.rows[row]; ok {
		return a.comment
	}
	return ""
}

// Cell returns a written cell value, "" when never written.
func (s *AnnotationSink) Cell(row int, column string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.rows[row]; ok {
		return a.cells[column]
	}
	return ""
}

// Columns returns the registered output columns, in registration order.
func (s *AnnotationSink) Columns() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// row returns the annotation record for a row, creating it on demand.
// Callers hold the write lock.
func (s *AnnotationSink) row(row int) *annotation {
	a, ok := s.rows[row]
	if !ok {
		a = &annotation{cells: make(map[string]string)}
		s.rows[row] = a
	}
	return a
}
