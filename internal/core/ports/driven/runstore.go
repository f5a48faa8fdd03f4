package driven

import (
	"context"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
)

// RunStore persists screening runs and their violations for history
// listing and trend reporting.
type RunStore interface {
	// SaveRun stores a completed run.
	SaveRun(ctx context.Context, run *domain.Run) error

	// SaveViolations stores the violations of a run.
	SaveViolations(ctx context.Context, runID string, violations []domain.Violation) error

	// ListRuns returns the most recent runs, newest first, up to limit.
	// A limit of 0 means no limit.
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)

	// GetRun retrieves a run by ID.
	// Returns domain.ErrNotFound when the run does not exist.
	GetRun(ctx context.Context, id string) (*domain.Run, error)

	// ListViolations returns the violations of a run, in row order.
	ListViolations(ctx context.Context, runID string) ([]domain.Violation, error)
}
