// Package services implements the screening checks: CPC counting,
// duplicate detection, and phone-conflict detection, plus the
// ScreeningService that coordinates them per run. Each checker owns its
// counter tables and signature sets for the duration of one call;
// nothing is shared across invocations.
package services

import (
	"fmt"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/core/ports/driven"
)

// disqualify writes a violation through the sink: status and reason
// idempotently, the message appended to the comment field.
func disqualify(sink driven.AnnotationSink, violation domain.Violation) error {
	if err := sink.SetStatusIfAbsent(violation.Row, domain.StatusDisqualified); err != nil {
		return fmt.Errorf("setting status on row %d: %w", violation.Row, err)
	}
	if err := sink.SetReasonIfAbsent(violation.Row, violation.Reason); err != nil {
		return fmt.Errorf("setting reason on row %d: %w", violation.Row, err)
	}
	if err := sink.AppendComment(violation.Row, violation.Message); err != nil {
		return fmt.Errorf("appending comment on row %d: %w", violation.Row, err)
	}
	return nil
}
