package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/core/ports/driven"
	"github.com/custodia-labs/leadscreen-cli/internal/logger"
	"github.com/custodia-labs/leadscreen-cli/internal/normalise"
)

// legacyCounts are the per-field occurrence counters kept alongside the
// unified identity counter for backward-compatible reporting: plain
// company name, TAL company name, exact domain, and root domain, each
// considered independently.
type legacyCounts struct {
	company map[string]int
	tal     map[string]int
	domain  map[string]int
	root    map[string]int
}

func newLegacyCounts() legacyCounts {
	return legacyCounts{
		company: make(map[string]int),
		tal:     make(map[string]int),
		domain:  make(map[string]int),
		root:    make(map[string]int),
	}
}

// CPCChecker enforces the contacts-per-company limit for external runs:
// delivery records prime the counters, then lead records are walked in
// order and flagged once their running total exceeds the limit. The
// unified root-domain identity is the primary signal; the legacy
// per-field counters are still computed and written for audit.
type CPCChecker struct {
	limit int
	sink  driven.AnnotationSink
}

// NewCPCChecker creates a CPC checker writing through the given sink.
func NewCPCChecker(limit int, sink driven.AnnotationSink) *CPCChecker {
	return &CPCChecker{limit: limit, sink: sink}
}

// cpcColumns are the audit columns the external check maintains.
var cpcColumns = []string{
	domain.ColumnCPCPrimary,
	domain.ColumnCPCBreakdown,
	domain.ColumnCPCCompany,
	domain.ColumnCPCTAL,
	domain.ColumnCPCDomain,
	domain.ColumnCPCRootDomain,
}

// Run executes the external CPC check. Delivery records are counted
// unconditionally as a fixed prior; each lead's running total already
// includes the lead itself, so with limit L the first L occurrences of
// an identity are never flagged.
func (c *CPCChecker) Run(delivery, leads []domain.Record, mapping domain.FieldMapping) (*domain.CPCStats, error) {
	logger.Section("External CPC Check")
	logger.Debug("Limit: %d, delivery records: %d, lead records: %d", c.limit, len(delivery), len(leads))

	stats := domain.NewCPCStats()

	for _, column := range cpcColumns {
		if err := c.sink.EnsureColumn(column); err != nil {
			return nil, fmt.Errorf("ensuring column %q: %w", column, err)
		}
	}

	deliveryUnified := make(map[domain.IdentityKey]int)
	deliveryLegacy := newLegacyCounts()

	for _, rec := range delivery {
		resolved := domain.ResolveIdentity(rec, mapping, domain.RoleDeliveryCompany, domain.RoleDeliveryDomain)
		if !resolved.Key.IsZero() {
			deliveryUnified[resolved.Key]++
			stats.Domains.Add(resolved.Domain)
			stats.Companies.Add(resolved.Company)
			stats.RootDomains.Add(resolved.RootDomain)
			rememberRootCompany(stats, resolved)
		}

		countLegacy(deliveryLegacy, resolved, normalise.Company(mapping.Value(rec, domain.RoleDeliveryTAL)))
	}

	leadUnified := make(map[domain.IdentityKey]int)
	leadLegacy := newLegacyCounts()

	for _, rec := range leads {
		resolved := domain.ResolveIdentity(rec, mapping, domain.RoleLeadCompany, domain.RoleLeadDomain)
		tal := normalise.Company(mapping.Value(rec, domain.RoleLeadTAL))

		total := 0
		if !resolved.Key.IsZero() {
			leadUnified[resolved.Key]++
			total = deliveryUnified[resolved.Key] + leadUnified[resolved.Key]
			stats.Domains.Add(resolved.Domain)
			stats.Companies.Add(resolved.Company)
			stats.RootDomains.Add(resolved.RootDomain)
			rememberRootCompany(stats, resolved)
		}

		countLegacy(leadLegacy, resolved, tal)

		companyTotal := legacyTotal(deliveryLegacy.company, leadLegacy.company, resolved.Company)
		talTotal := legacyTotal(deliveryLegacy.tal, leadLegacy.tal, tal)
		domainTotal := legacyTotal(deliveryLegacy.domain, leadLegacy.domain, resolved.Domain)
		rootTotal := legacyTotal(deliveryLegacy.root, leadLegacy.root, resolved.RootDomain)

		if err := c.writeAuditColumns(rec.Row, resolved, tal, total, companyTotal, talTotal, domainTotal, rootTotal); err != nil {
			return nil, err
		}

		var messages []string
		observed := 0

		if !resolved.Key.IsZero() && total > c.limit {
			messages = append(messages, unifiedMessage("CPC Exceeded", resolved, total, c.limit))
			observed = total
		}

		// Legacy per-field violations are reported only when the
		// unified check stayed quiet, to avoid duplicate noise.
		if len(messages) == 0 {
			messages = legacyMessages("CPC Exceeded", c.limit, resolved, tal, companyTotal, talTotal, domainTotal, rootTotal)
			if len(messages) > 0 {
				observed = maxLegacy(companyTotal, talTotal, domainTotal, rootTotal)
			}
		}

		if len(messages) > 0 {
			violation := domain.Violation{
				Row:      rec.Row,
				Rule:     domain.RuleCPC,
				Reason:   domain.ReasonExtraCPC,
				Limit:    c.limit,
				Observed: observed,
				Message:  joinCapped(messages, 2),
			}
			if err := disqualify(c.sink, violation); err != nil {
				return nil, err
			}
			stats.Violations++
			stats.Details = append(stats.Details, violation)
		}
	}

	logger.Info("External CPC check done: %d violations, %d distinct root domains",
		stats.Violations, len(stats.RootDomains))
	return stats, nil
}

func (c *CPCChecker) writeAuditColumns(row int, resolved domain.ResolvedIdentity, tal string, total, companyTotal, talTotal, domainTotal, rootTotal int) error {
	if err := c.sink.SetCell(row, domain.ColumnCPCPrimary, countCell(total, total > 0)); err != nil {
		return fmt.Errorf("writing primary count: %w", err)
	}
	if !resolved.Key.IsZero() {
		if err := c.sink.SetCell(row, domain.ColumnCPCBreakdown, breakdownCell(resolved, total)); err != nil {
			return fmt.Errorf("writing breakdown: %w", err)
		}
	}

	cells := []struct {
		column string
		total  int
		signal string
	}{
		{domain.ColumnCPCCompany, companyTotal, resolved.Company},
		{domain.ColumnCPCTAL, talTotal, tal},
		{domain.ColumnCPCDomain, domainTotal, resolved.Domain},
		{domain.ColumnCPCRootDomain, rootTotal, resolved.RootDomain},
	}
	for _, cell := range cells {
		if err := c.sink.SetCell(row, cell.column, countCell(cell.total, cell.signal != "")); err != nil {
			return fmt.Errorf("writing %q: %w", cell.column, err)
		}
	}
	return nil
}

// InternalCPCChecker enforces the limit within a single lead file: no
// delivery prior, counters start at zero. Used for a first delivery,
// and additionally after every external run.
type InternalCPCChecker struct {
	limit int
	sink  driven.AnnotationSink
}

// NewInternalCPCChecker creates an internal CPC checker.
func NewInternalCPCChecker(limit int, sink driven.AnnotationSink) *InternalCPCChecker {
	return &InternalCPCChecker{limit: limit, sink: sink}
}

var internalCPCColumns = []string{
	domain.ColumnInternalCPCCompany,
	domain.ColumnInternalCPCTAL,
	domain.ColumnInternalCPCDomain,
	domain.ColumnInternalCPCRootDomain,
}

// Run executes the internal CPC check over the lead set alone.
func (c *InternalCPCChecker) Run(leads []domain.Record, mapping domain.FieldMapping) (*domain.CPCStats, error) {
	logger.Section("Internal CPC Check")
	logger.Debug("Limit: %d, lead records: %d", c.limit, len(leads))

	stats := domain.NewCPCStats()

	for _, column := range internalCPCColumns {
		if err := c.sink.EnsureColumn(column); err != nil {
			return nil, fmt.Errorf("ensuring column %q: %w", column, err)
		}
	}

	unified := make(map[domain.IdentityKey]int)
	legacy := newLegacyCounts()

	for _, rec := range leads {
		resolved := domain.ResolveIdentity(rec, mapping, domain.RoleLeadCompany, domain.RoleLeadDomain)
		tal := normalise.Company(mapping.Value(rec, domain.RoleLeadTAL))

		total := 0
		if !resolved.Key.IsZero() {
			unified[resolved.Key]++
			total = unified[resolved.Key]
			stats.Companies.Add(resolved.Company)
			stats.RootDomains.Add(resolved.RootDomain)
		}

		countLegacy(legacy, resolved, tal)

		companyCount := legacyTotal(nil, legacy.company, resolved.Company)
		talCount := legacyTotal(nil, legacy.tal, tal)
		domainCount := legacyTotal(nil, legacy.domain, resolved.Domain)
		rootCount := legacyTotal(nil, legacy.root, resolved.RootDomain)

		cells := []struct {
			column string
			total  int
			signal string
		}{
			{domain.ColumnInternalCPCCompany, companyCount, resolved.Company},
			{domain.ColumnInternalCPCTAL, talCount, tal},
			{domain.ColumnInternalCPCDomain, domainCount, resolved.Domain},
			{domain.ColumnInternalCPCRootDomain, rootCount, resolved.RootDomain},
		}
		for _, cell := range cells {
			if err := c.sink.SetCell(rec.Row, cell.column, countCell(cell.total, cell.signal != "")); err != nil {
				return nil, fmt.Errorf("writing %q: %w", cell.column, err)
			}
		}

		var messages []string
		observed := 0

		if !resolved.Key.IsZero() && total > c.limit {
			messages = append(messages, unifiedMessage("Internal CPC Exceeded", resolved, total, c.limit))
			observed = total
		}
		if len(messages) == 0 {
			messages = legacyMessages("Internal CPC Exceeded", c.limit, resolved, tal, companyCount, talCount, domainCount, rootCount)
			if len(messages) > 0 {
				observed = maxLegacy(companyCount, talCount, domainCount, rootCount)
			}
		}

		if len(messages) > 0 {
			violation := domain.Violation{
				Row:      rec.Row,
				Rule:     domain.RuleInternalCPC,
				Reason:   domain.ReasonInternalCPC,
				Limit:    c.limit,
				Observed: observed,
				Message:  joinCapped(messages, 2),
			}
			if err := disqualify(c.sink, violation); err != nil {
				return nil, err
			}
			stats.Violations++
			stats.Details = append(stats.Details, violation)
		}
	}

	logger.Info("Internal CPC check done: %d violations", stats.Violations)
	return stats, nil
}

// countLegacy increments the per-field counters for whichever signals a
// record carries.
func countLegacy(counts legacyCounts, resolved domain.ResolvedIdentity, tal string) {
	if resolved.Company != "" {
		counts.company[resolved.Company]++
	}
	if tal != "" {
		counts.tal[tal]++
	}
	if resolved.Domain != "" {
		counts.domain[resolved.Domain]++
	}
	if resolved.RootDomain != "" {
		counts.root[resolved.RootDomain]++
	}
}

// legacyTotal sums a delivery-primed counter and a lead counter for one
// key; a blank key has no signal and totals zero.
func legacyTotal(deliverySide, leadSide map[string]int, key string) int {
	if key == "" {
		return 0
	}
	return deliverySide[key] + leadSide[key]
}

// unifiedMessage renders the primary violation text, preferring
// root-domain wording when the identity resolved from a root domain.
func unifiedMessage(prefix string, resolved domain.ResolvedIdentity, total, limit int) string {
	if resolved.Key.Kind == domain.IdentityRootDomain {
		msg := fmt.Sprintf("%s: Root Domain '%s' (%d/%d)", prefix, resolved.RootDomain, total, limit)
		if resolved.Company != "" {
			msg += " - " + resolved.Company
		}
		return msg
	}
	return fmt.Sprintf("%s: %s (%d/%d)", prefix, resolved.Label, total, limit)
}

// legacyMessages renders per-field violation texts in fixed order.
// Root domain supersedes exact domain so a record never carries both.
func legacyMessages(prefix string, limit int, resolved domain.ResolvedIdentity, tal string, companyTotal, talTotal, domainTotal, rootTotal int) []string {
	var messages []string
	if resolved.Company != "" && companyTotal > limit {
		messages = append(messages, fmt.Sprintf("%s by Company Name (%d/%d)", prefix, companyTotal, limit))
	}
	if tal != "" && talTotal > limit {
		messages = append(messages, fmt.Sprintf("%s by TAL Company Name (%d/%d)", prefix, talTotal, limit))
	}
	switch {
	case resolved.RootDomain != "" && rootTotal > limit:
		messages = append(messages, fmt.Sprintf("%s by Root Domain '%s' (%d/%d)", prefix, resolved.RootDomain, rootTotal, limit))
	case resolved.Domain != "" && domainTotal > limit:
		messages = append(messages, fmt.Sprintf("%s by Exact Domain (%d/%d)", prefix, domainTotal, limit))
	}
	return messages
}

// rememberRootCompany keeps the first company name seen per root
// domain, for reporting.
func rememberRootCompany(stats *domain.CPCStats, resolved domain.ResolvedIdentity) {
	if resolved.RootDomain == "" || resolved.Company == "" {
		return
	}
	if _, ok := stats.RootDomainCompany[resolved.RootDomain]; !ok {
		stats.RootDomainCompany[resolved.RootDomain] = resolved.Company
	}
}

// countCell formats a running total for an audit column; identities
// with no signal leave the cell blank.
func countCell(total int, hasSignal bool) string {
	if !hasSignal {
		return ""
	}
	return strconv.Itoa(total)
}

// breakdownCell explains which signal the unified identity used.
func breakdownCell(resolved domain.ResolvedIdentity, total int) string {
	text := fmt.Sprintf("%s: %d", resolved.Label, total)
	switch resolved.Key.Kind {
	case domain.IdentityRootDomain:
		text += fmt.Sprintf(" (Root domain: %s)", resolved.RootDomain)
	case domain.IdentityDomain:
		text += " (Exact domain-based)"
	case domain.IdentityCompany:
		text += " (Company name-based)"
	}
	return text
}

func maxLegacy(values ...int) int {
	highest := 0
	for _, v := range values {
		if v > highest {
			highest = v
		}
	}
	return highest
}

func joinCapped(messages []string, keep int) string {
	if len(messages) > keep {
		messages = messages[:keep]
	}
	return strings.Join(messages, "; ")
}
