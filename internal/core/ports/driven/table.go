package driven

import "github.com/custodia-labs/leadscreen-cli/internal/core/domain"

// TableReader loads a tabular file into an ordered Table. Row order is
// preserved exactly as read; the screening checks treat order as a
// correctness contract, not a detail.
type TableReader interface {
	// Read loads the table at path.
	Read(path string) (*domain.Table, error)
}

// TableWriter persists an annotated table back to disk.
type TableWriter interface {
	// Write stores the table at path, headers first, records in order.
	Write(path string, table *domain.Table) error
}
