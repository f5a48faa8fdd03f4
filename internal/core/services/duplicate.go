package services

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/core/ports/driven"
	"github.com/custodia-labs/leadscreen-cli/internal/logger"
	"github.com/custodia-labs/leadscreen-cli/internal/normalise"
	"github.com/custodia-labs/leadscreen-cli/internal/permute"
)

// deliverySignatures is the reference set built from the delivery file:
// exact lowercased emails, exact lowercased profile links, and the
// union of every delivery record's permutation candidates.
type deliverySignatures struct {
	emails       domain.StringSet
	links        domain.StringSet
	permutations permute.Set
}

// DuplicateChecker detects lead records that duplicate a delivery
// record (exactly or via email permutations) or an earlier lead record
// in the same pass.
type DuplicateChecker struct {
	sink driven.AnnotationSink
	opts permute.Options
}

// NewDuplicateChecker creates a duplicate checker writing through the
// given sink. Both sides of the permutation comparison generate with
// opts.
func NewDuplicateChecker(sink driven.AnnotationSink, opts permute.Options) *DuplicateChecker {
	return &DuplicateChecker{sink: sink, opts: opts}
}

// Run executes the external duplicate check. A record matching the
// delivery set is flagged "Same Prospect Duplicate"; a record only
// matching an earlier lead is flagged "Internal Duplicate". External
// matches take priority, so one violation at most per record.
func (c *DuplicateChecker) Run(delivery, leads []domain.Record, mapping domain.FieldMapping) (*domain.DuplicateStats, error) {
	logger.Section("External Duplicate Check")
	logger.Debug("Delivery records: %d, lead records: %d", len(delivery), len(leads))

	stats := &domain.DuplicateStats{}
	reference := c.buildDeliverySignatures(delivery, mapping, stats)

	leadEmails := make(domain.StringSet)
	leadLinks := make(domain.StringSet)

	for _, rec := range leads {
		// Records an earlier check disqualified are skipped entirely;
		// their signatures do not feed later comparisons.
		if c.sink.Status(rec.Row) == domain.StatusDisqualified {
			continue
		}

		email := exactEmail(rec, mapping)
		link := exactLink(rec, mapping)

		var externalReasons []string
		if email != "" && reference.emails.Has(email) {
			externalReasons = append(externalReasons, "Email match in delivery")
		}
		if link != "" && reference.links.Has(link) {
			externalReasons = append(externalReasons, "LinkedIn match in delivery")
		}

		if len(externalReasons) == 0 && canCheckPermutations(mapping) {
			first := mapping.Value(rec, domain.RoleLeadFirst)
			last := mapping.Value(rec, domain.RoleLeadLast)
			dom := mapping.Value(rec, domain.RoleLeadDomain)
			if first != "" && last != "" && dom != "" {
				candidates, err := permute.Generate(first, last, dom, c.opts)
				if err != nil {
					stats.PermutationErrors++
				} else if candidates.Intersects(reference.permutations) {
					externalReasons = append(externalReasons, "Email permutation match in delivery")
				}
			}
		}

		var internalReasons []string
		if email != "" && leadEmails.Has(email) {
			internalReasons = append(internalReasons, "Internal duplicate email")
		}
		if link != "" && leadLinks.Has(link) {
			internalReasons = append(internalReasons, "Internal duplicate LinkedIn")
		}

		leadEmails.Add(email)
		leadLinks.Add(link)

		switch {
		case len(externalReasons) > 0:
			violation := domain.Violation{
				Row:     rec.Row,
				Rule:    domain.RuleDuplicate,
				Reason:  domain.ReasonDuplicate,
				Message: "Same Prospect Same Campaign - " + strings.Join(append(externalReasons, internalReasons...), "; "),
			}
			if err := disqualify(c.sink, violation); err != nil {
				return nil, err
			}
			stats.External++
			stats.Details = append(stats.Details, violation)

		case len(internalReasons) > 0:
			violation := domain.Violation{
				Row:     rec.Row,
				Rule:    domain.RuleInternalDuplicate,
				Reason:  domain.ReasonInternalDuplicate,
				Message: "Duplicate within file - " + strings.Join(internalReasons, "; "),
			}
			if err := disqualify(c.sink, violation); err != nil {
				return nil, err
			}
			stats.Internal++
			stats.Details = append(stats.Details, violation)
		}
	}

	logger.Info("External duplicate check done: %d external, %d internal, %d permutation errors",
		stats.External, stats.Internal, stats.PermutationErrors)
	return stats, nil
}

func (c *DuplicateChecker) buildDeliverySignatures(delivery []domain.Record, mapping domain.FieldMapping, stats *domain.DuplicateStats) deliverySignatures {
	reference := deliverySignatures{
		emails:       make(domain.StringSet),
		links:        make(domain.StringSet),
		permutations: make(permute.Set),
	}

	permutable := canCheckPermutations(mapping)

	for _, rec := range delivery {
		if email := mapping.Value(rec, domain.RoleDeliveryEmail); email != "" {
			reference.emails.Add(strings.ToLower(email))
		}
		if link := mapping.Value(rec, domain.RoleDeliveryLink); link != "" {
			reference.links.Add(strings.ToLower(link))
		}

		if !permutable {
			continue
		}
		first := mapping.Value(rec, domain.RoleDeliveryFirst)
		last := mapping.Value(rec, domain.RoleDeliveryLast)
		dom := mapping.Value(rec, domain.RoleDeliveryDomain)
		if first == "" || last == "" || dom == "" {
			continue
		}
		candidates, err := permute.Generate(first, last, dom, c.opts)
		if err != nil {
			stats.PermutationErrors++
			continue
		}
		for candidate := range candidates {
			reference.permutations[candidate] = struct{}{}
		}
	}

	logger.Debug("Delivery signatures: %d emails, %d links, %d permutation candidates",
		len(reference.emails), len(reference.links), len(reference.permutations))
	return reference
}

// canCheckPermutations reports whether first, last, and domain are
// mapped on both sides, the precondition for permutation matching.
func canCheckPermutations(mapping domain.FieldMapping) bool {
	for _, role := range []domain.Role{
		domain.RoleDeliveryFirst, domain.RoleDeliveryLast, domain.RoleDeliveryDomain,
		domain.RoleLeadFirst, domain.RoleLeadLast, domain.RoleLeadDomain,
	} {
		if _, ok := mapping.Column(role); !ok {
			return false
		}
	}
	return true
}

// InternalDuplicateChecker detects duplicates within a single lead
// file: exact email, normalised profile link, and a conservative
// name+root-domain match tuned for precision over recall — it will not
// flag "Jonathan Kyle" against "Kyle Fleming" on a shared domain.
type InternalDuplicateChecker struct {
	sink driven.AnnotationSink
}

// NewInternalDuplicateChecker creates an internal duplicate checker.
func NewInternalDuplicateChecker(sink driven.AnnotationSink) *InternalDuplicateChecker {
	return &InternalDuplicateChecker{sink: sink}
}

// Run executes the internal duplicate check over the lead set alone.
func (c *InternalDuplicateChecker) Run(leads []domain.Record, mapping domain.FieldMapping) (*domain.DuplicateStats, error) {
	logger.Section("Internal Duplicate Check")
	logger.Debug("Lead records: %d", len(leads))

	stats := &domain.DuplicateStats{}

	seenEmails := make(domain.StringSet)
	seenLinks := make(domain.StringSet)
	seenNameDomain := make(domain.StringSet)

	nameDomainMappable := canCheckNameDomain(mapping)

	for _, rec := range leads {
		if c.sink.Status(rec.Row) == domain.StatusDisqualified {
			continue
		}

		email := exactEmail(rec, mapping)
		link := normalisedLink(rec, mapping)

		var reasons []string
		if email != "" && seenEmails.Has(email) {
			reasons = append(reasons, "Internal duplicate email")
		}
		if link != "" && seenLinks.Has(link) {
			reasons = append(reasons, "Internal duplicate LinkedIn")
		}

		if len(reasons) == 0 && nameDomainMappable {
			signatures := conservativeSignatures(
				mapping.Value(rec, domain.RoleLeadFirst),
				mapping.Value(rec, domain.RoleLeadLast),
				mapping.Value(rec, domain.RoleLeadDomain),
			)
			for _, signature := range signatures {
				if seenNameDomain.Has(signature) {
					reasons = append(reasons, "Internal duplicate name+root domain match")
					break
				}
			}
			for _, signature := range signatures {
				seenNameDomain.Add(signature)
			}
		}

		seenEmails.Add(email)
		seenLinks.Add(link)

		if len(reasons) > 0 {
			violation := domain.Violation{
				Row:     rec.Row,
				Rule:    domain.RuleInternalDuplicate,
				Reason:  domain.ReasonInternalDuplicate,
				Message: "Duplicate within file - " + strings.Join(reasons, "; "),
			}
			if err := disqualify(c.sink, violation); err != nil {
				return nil, err
			}
			stats.Internal++
			stats.Details = append(stats.Details, violation)
		}
	}

	logger.Info("Internal duplicate check done: %d duplicates", stats.Internal)
	return stats, nil
}

var alphaOnly = regexp.MustCompile(`[^a-z]`)

// conservativeSignatures builds the small fixed signature set used for
// name+root-domain matching: first.last and firstlast, plus the
// three-character last-name prefix forms when the last name is long
// enough. Requiring the full first name keeps unrelated people who
// share a domain apart.
func conservativeSignatures(first, last, rawDomain string) []string {
	firstClean := alphaOnly.ReplaceAllString(strings.ToLower(first), "")
	lastClean := alphaOnly.ReplaceAllString(strings.ToLower(last), "")
	if firstClean == "" || lastClean == "" {
		return nil
	}

	dom := normalise.RootDomain(rawDomain)
	if dom == "" {
		dom = strings.ToLower(strings.TrimSpace(rawDomain))
	}
	if dom == "" {
		return nil
	}

	signatures := []string{
		firstClean + "." + lastClean + "@" + dom,
		firstClean + lastClean + "@" + dom,
	}
	if len(lastClean) >= 3 {
		signatures = append(signatures,
			firstClean+"."+lastClean[:3]+"@"+dom,
			firstClean+lastClean[:3]+"@"+dom,
		)
	}
	return signatures
}

// canCheckNameDomain reports whether the lead side maps first, last,
// and domain, the precondition for conservative name matching.
func canCheckNameDomain(mapping domain.FieldMapping) bool {
	for _, role := range []domain.Role{domain.RoleLeadFirst, domain.RoleLeadLast, domain.RoleLeadDomain} {
		if _, ok := mapping.Column(role); !ok {
			return false
		}
	}
	return true
}

func exactEmail(rec domain.Record, mapping domain.FieldMapping) string {
	return strings.ToLower(mapping.Value(rec, domain.RoleLeadEmail))
}

func exactLink(rec domain.Record, mapping domain.FieldMapping) string {
	return strings.ToLower(mapping.Value(rec, domain.RoleLeadLink))
}

func normalisedLink(rec domain.Record, mapping domain.FieldMapping) string {
	return normalise.ProfileLink(mapping.Value(rec, domain.RoleLeadLink))
}
