package services

import (
	"fmt"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/core/ports/driven"
	"github.com/custodia-labs/leadscreen-cli/internal/logger"
	"github.com/custodia-labs/leadscreen-cli/internal/normalise"
)

// phoneOwner is the first-seen association of a phone number: the
// resolved identity that owns it, plus the raw display values for
// conflict messages.
type phoneOwner struct {
	key     domain.IdentityKey
	company string
	domain  string
	row     int
}

// PhoneChecker flags lead records whose phone number was first seen,
// in the delivery file, under a different identity. Conflicts are
// written to an audit column; they do not disqualify the record.
type PhoneChecker struct {
	sink driven.AnnotationSink
}

// NewPhoneChecker creates an external phone-conflict checker.
func NewPhoneChecker(sink driven.AnnotationSink) *PhoneChecker {
	return &PhoneChecker{sink: sink}
}

// Run executes the external phone check: delivery phones are mapped to
// their first-seen identity, then each lead with the same normalised
// phone but a different identity is flagged.
func (c *PhoneChecker) Run(delivery, leads []domain.Record, mapping domain.FieldMapping) (*domain.PhoneStats, error) {
	logger.Section("External Phone Conflict Check")

	stats := &domain.PhoneStats{}
	if _, ok := mapping.Column(domain.RoleLeadPhone); !ok {
		logger.Debug("Lead phone not mapped, skipping")
		return stats, nil
	}

	if err := c.sink.EnsureColumn(domain.ColumnPhoneConflicts); err != nil {
		return nil, fmt.Errorf("ensuring column %q: %w", domain.ColumnPhoneConflicts, err)
	}

	owners := buildPhoneMap(delivery, mapping, domain.RoleDeliveryPhone, domain.RoleDeliveryCompany, domain.RoleDeliveryDomain)
	logger.Debug("Delivery phone map: %d numbers", len(owners))

	for _, rec := range leads {
		phone := normalise.Phone(mapping.Value(rec, domain.RoleLeadPhone))
		if phone == "" {
			continue
		}

		resolved := domain.ResolveIdentity(rec, mapping, domain.RoleLeadCompany, domain.RoleLeadDomain)
		if resolved.Key.IsZero() {
			continue
		}

		owner, ok := owners[phone]
		if !ok || owner.key == resolved.Key {
			continue
		}

		message := conflictMessage(owner, "in delivery file")
		if err := c.sink.SetCell(rec.Row, domain.ColumnPhoneConflicts, message); err != nil {
			return nil, fmt.Errorf("writing phone conflict: %w", err)
		}
		stats.Conflicts++
		stats.Details = append(stats.Details, domain.Violation{
			Row:     rec.Row,
			Rule:    domain.RulePhone,
			Message: message,
		})
	}

	logger.Info("External phone check done: %d conflicts", stats.Conflicts)
	return stats, nil
}

// InternalPhoneChecker flags phone numbers shared by records with
// different identities within the lead set. The first occurrence of a
// phone is never flagged.
type InternalPhoneChecker struct {
	sink driven.AnnotationSink
}

// NewInternalPhoneChecker creates an internal phone-conflict checker.
func NewInternalPhoneChecker(sink driven.AnnotationSink) *InternalPhoneChecker {
	return &InternalPhoneChecker{sink: sink}
}

// Run executes the internal phone check over the lead set alone.
func (c *InternalPhoneChecker) Run(leads []domain.Record, mapping domain.FieldMapping) (*domain.PhoneStats, error) {
	logger.Section("Internal Phone Conflict Check")

	stats := &domain.PhoneStats{}
	if _, ok := mapping.Column(domain.RoleLeadPhone); !ok {
		logger.Debug("Lead phone not mapped, skipping")
		return stats, nil
	}

	if err := c.sink.EnsureColumn(domain.ColumnInternalPhoneConflicts); err != nil {
		return nil, fmt.Errorf("ensuring column %q: %w", domain.ColumnInternalPhoneConflicts, err)
	}

	owners := make(map[string]phoneOwner)

	for _, rec := range leads {
		phone := normalise.Phone(mapping.Value(rec, domain.RoleLeadPhone))
		if phone == "" {
			continue
		}

		resolved := domain.ResolveIdentity(rec, mapping, domain.RoleLeadCompany, domain.RoleLeadDomain)
		if resolved.Key.IsZero() {
			continue
		}

		owner, seen := owners[phone]
		if !seen {
			owners[phone] = phoneOwner{
				key:     resolved.Key,
				company: mapping.Value(rec, domain.RoleLeadCompany),
				domain:  mapping.Value(rec, domain.RoleLeadDomain),
				row:     rec.Row,
			}
			continue
		}

		if owner.key == resolved.Key {
			continue
		}

		message := conflictMessage(owner, fmt.Sprintf("at row %d", owner.row))
		if err := c.sink.SetCell(rec.Row, domain.ColumnInternalPhoneConflicts, message); err != nil {
			return nil, fmt.Errorf("writing phone conflict: %w", err)
		}
		stats.Conflicts++
		stats.Details = append(stats.Details, domain.Violation{
			Row:     rec.Row,
			Rule:    domain.RuleInternalPhone,
			Message: message,
		})
	}

	logger.Info("Internal phone check done: %d conflicts", stats.Conflicts)
	return stats, nil
}

// buildPhoneMap associates each normalised phone with the identity of
// its first occurrence. Later occurrences never overwrite the first.
func buildPhoneMap(records []domain.Record, mapping domain.FieldMapping, phoneRole, companyRole, domainRole domain.Role) map[string]phoneOwner {
	owners := make(map[string]phoneOwner)
	if _, ok := mapping.Column(phoneRole); !ok {
		return owners
	}

	for _, rec := range records {
		phone := normalise.Phone(mapping.Value(rec, phoneRole))
		if phone == "" {
			continue
		}
		if _, seen := owners[phone]; seen {
			continue
		}

		resolved := domain.ResolveIdentity(rec, mapping, companyRole, domainRole)
		if resolved.Key.IsZero() {
			continue
		}

		owners[phone] = phoneOwner{
			key:     resolved.Key,
			company: mapping.Value(rec, companyRole),
			domain:  mapping.Value(rec, domainRole),
			row:     rec.Row,
		}
	}
	return owners
}

// conflictMessage names the prior owner of the phone. The locator is
// either "in delivery file" or "at row N".
func conflictMessage(owner phoneOwner, locator string) string {
	switch {
	case owner.company != "" && owner.domain != "":
		return fmt.Sprintf("Phone used for %s (%s) %s", owner.company, owner.domain, locator)
	case owner.domain != "":
		return fmt.Sprintf("Phone used for %s %s", owner.domain, locator)
	default:
		return fmt.Sprintf("Phone used for %s %s", owner.company, locator)
	}
}
