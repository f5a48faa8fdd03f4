package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoLeadRecords indicates the lead table held no data rows.
	ErrNoLeadRecords = errors.New("no lead records")

	// ErrNoChecksSelected indicates a run was requested with every
	// check disabled.
	ErrNoChecksSelected = errors.New("no checks selected")

	// ErrUnsupportedFormat indicates a table file extension no reader
	// handles.
	ErrUnsupportedFormat = errors.New("unsupported table format")

	// ErrMappingRequired indicates a run was requested without a field
	// mapping.
	ErrMappingRequired = errors.New("field mapping required")
)
