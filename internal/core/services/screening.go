package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/core/ports/driven"
	"github.com/custodia-labs/leadscreen-cli/internal/core/ports/driving"
	"github.com/custodia-labs/leadscreen-cli/internal/logger"
	"github.com/custodia-labs/leadscreen-cli/internal/permute"
)

// Ensure ScreeningService implements the interface.
var _ driving.Screener = (*ScreeningService)(nil)

// defaultCPCLimit applies when a request carries no limit.
const defaultCPCLimit = 3

// ScreeningService coordinates the screening checks for one run. In
// internal mode the lead set is checked against itself; in external
// mode it is checked against the delivery set first and the internal
// checks run afterwards, exactly in that order.
type ScreeningService struct {
	sink     driven.AnnotationSink
	runStore driven.RunStore
}

// NewScreeningService creates a screening service writing annotations
// through sink. The run store is optional (can be nil); without it runs
// are not recorded in history.
func NewScreeningService(sink driven.AnnotationSink, runStore driven.RunStore) *ScreeningService {
	return &ScreeningService{sink: sink, runStore: runStore}
}

// Screen executes the requested checks over the lead set, annotating
// lead records through the sink and returning aggregate statistics.
func (s *ScreeningService) Screen(ctx context.Context, req driving.ScreenRequest) (*domain.RunStats, error) {
	if len(req.Leads) == 0 {
		return nil, domain.ErrNoLeadRecords
	}
	if len(req.Mapping) == 0 {
		return nil, domain.ErrMappingRequired
	}
	if !req.Checks.Any() {
		return nil, domain.ErrNoChecksSelected
	}

	limit := req.CPCLimit
	if limit <= 0 {
		limit = defaultCPCLimit
	}
	if req.Permutations == (permute.Options{}) {
		req.Permutations = permute.Suppression()
	}

	mode := domain.ModeInternal
	if len(req.Delivery) > 0 {
		mode = domain.ModeExternal
	}

	started := time.Now()
	stats := &domain.RunStats{
		RunID:      uuid.New().String(),
		Mode:       mode,
		TotalLeads: len(req.Leads),
	}

	logger.Section("Screening Run")
	logger.Info("Mode: %s", mode.Description())
	logger.Debug("Run ID: %s, CPC limit: %d, checks: cpc=%t dup=%t phone=%t",
		stats.RunID, limit, req.Checks.CPC, req.Checks.Duplicates, req.Checks.Phone)

	for _, column := range []string{domain.ColumnLeadStatus, domain.ColumnDQReason, domain.ColumnQAComment} {
		if err := s.sink.EnsureColumn(column); err != nil {
			return nil, fmt.Errorf("ensuring column %q: %w", column, err)
		}
	}

	if mode == domain.ModeExternal {
		if err := s.runExternal(req, limit, stats); err != nil {
			return nil, err
		}
	}

	// Internal checks run in both modes; after an external pass they
	// see only the lead side of the mapping.
	if err := s.runInternal(req, limit, stats); err != nil {
		return nil, err
	}

	for _, rec := range req.Leads {
		if s.sink.Status(rec.Row) != domain.StatusDisqualified {
			stats.Passed++
		}
	}

	stats.ProcessingTime = time.Since(started)
	logger.Info("Run complete in %s: %d/%d passed, %d violations",
		stats.ProcessingTime.Round(time.Millisecond), stats.Passed, stats.TotalLeads, stats.ViolationCount())

	if err := s.record(ctx, req, limit, started, stats); err != nil {
		// History is best-effort reporting; the screening itself
		// succeeded and its annotations are already written.
		logger.Warn("Recording run history failed: %v", err)
	}

	return stats, nil
}

func (s *ScreeningService) runExternal(req driving.ScreenRequest, limit int, stats *domain.RunStats) error {
	var err error

	if req.Checks.CPC {
		checker := NewCPCChecker(limit, s.sink)
		if stats.CPC, err = checker.Run(req.Delivery, req.Leads, req.Mapping); err != nil {
			return fmt.Errorf("external cpc check: %w", err)
		}
	}

	if req.Checks.Duplicates {
		checker := NewDuplicateChecker(s.sink, req.Permutations)
		if stats.Duplicates, err = checker.Run(req.Delivery, req.Leads, req.Mapping); err != nil {
			return fmt.Errorf("external duplicate check: %w", err)
		}
	}

	if req.Checks.Phone {
		checker := NewPhoneChecker(s.sink)
		if stats.Phone, err = checker.Run(req.Delivery, req.Leads, req.Mapping); err != nil {
			return fmt.Errorf("external phone check: %w", err)
		}
	}

	return nil
}

func (s *ScreeningService) runInternal(req driving.ScreenRequest, limit int, stats *domain.RunStats) error {
	mapping := req.Mapping.LeadView()
	var err error

	if req.Checks.CPC {
		checker := NewInternalCPCChecker(limit, s.sink)
		if stats.InternalCPC, err = checker.Run(req.Leads, mapping); err != nil {
			return fmt.Errorf("internal cpc check: %w", err)
		}
	}

	if req.Checks.Duplicates {
		checker := NewInternalDuplicateChecker(s.sink)
		if stats.InternalDuplicates, err = checker.Run(req.Leads, mapping); err != nil {
			return fmt.Errorf("internal duplicate check: %w", err)
		}
	}

	if req.Checks.Phone {
		checker := NewInternalPhoneChecker(s.sink)
		if stats.InternalPhone, err = checker.Run(req.Leads, mapping); err != nil {
			return fmt.Errorf("internal phone check: %w", err)
		}
	}

	return nil
}

func (s *ScreeningService) record(ctx context.Context, req driving.ScreenRequest, limit int, started time.Time, stats *domain.RunStats) error {
	if s.runStore == nil {
		return nil
	}

	violations := stats.Violations()
	for i := range violations {
		violations[i].ID = uuid.New().String()
	}

	run := &domain.Run{
		ID:             stats.RunID,
		Mode:           stats.Mode,
		LeadFile:       req.LeadFile,
		DeliveryFile:   req.DeliveryFile,
		CPCLimit:       limit,
		StartedAt:      started,
		Duration:       stats.ProcessingTime,
		TotalLeads:     stats.TotalLeads,
		Passed:         stats.Passed,
		ViolationCount: len(violations),
	}

	if err := s.runStore.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	if err := s.runStore.SaveViolations(ctx, run.ID, violations); err != nil {
		return fmt.Errorf("saving violations: %w", err)
	}
	return nil
}
