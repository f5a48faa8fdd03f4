package driven

// AnnotationSink is how checks durably annotate lead records. The
// status and reason operations are idempotent: they write only when
// the field is still unset, so the first rule to fire on a record owns
// the headline reason. Comments are cumulative: every rule appends its
// explanation unless that exact text is already present.
type AnnotationSink interface {
	// EnsureColumn makes the named output column available for SetCell
	// writes, appending it when missing.
	EnsureColumn(name string) error

	// SetCell writes a value into an output column for one row,
	// unconditionally. Used for the running-total audit columns.
	SetCell(row int, column, value string) error

	// Status returns the current status of a row ("" when unset).
	// Checks use this to skip records a prior check disqualified.
	Status(row int) string

	// SetStatusIfAbsent marks a row disqualified unless a status is
	// already present.
	SetStatusIfAbsent(row int, status string) error

	// SetReasonIfAbsent records the disqualification reason unless one
	// is already present.
	SetReasonIfAbsent(row int, reason string) error

	// AppendComment appends free text to the row's comment field,
	// joined with ", ". The append is skipped when the exact text is
	// already a substring of the existing comment, so repeated checks
	// do not duplicate annotations.
	AppendComment(row int, comment string) error
}
