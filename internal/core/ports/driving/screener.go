// Package driving defines the inbound ports of the screening engine,
// implemented by the core services and called by the CLI and TUI
// adapters.
package driving

import (
	"context"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/permute"
)

// ScreenRequest describes one screening run. Delivery is optional: when
// nil, the run is internal-only (first delivery mode); when present,
// the lead set is screened against it first and the internal checks
// run afterwards.
type ScreenRequest struct {
	// Delivery holds the previously delivered records, in file order.
	Delivery []domain.Record

	// Leads holds the records under validation, in file order. Order
	// is a correctness contract: cumulative counts depend on it.
	Leads []domain.Record

	// Mapping assigns logical roles to columns of both files.
	Mapping domain.FieldMapping

	// Checks selects which rules run.
	Checks domain.CheckSelection

	// CPCLimit is the contacts-per-company threshold.
	CPCLimit int

	// Permutations controls candidate generation for the duplicate
	// check. The zero value selects the suppression preset.
	Permutations permute.Options

	// LeadFile and DeliveryFile are recorded in run history.
	LeadFile     string
	DeliveryFile string
}

// Screener runs the screening checks over a lead set, annotating lead
// records through the engine's annotation sink and returning aggregate
// statistics.
type Screener interface {
	// Screen executes the requested checks. Lead records are annotated
	// in place via the sink; the returned stats are immutable.
	Screen(ctx context.Context, req ScreenRequest) (*domain.RunStats, error)
}
