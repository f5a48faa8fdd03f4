package domain

import (
	"github.com/custodia-labs/leadscreen-cli/internal/normalise"
)

// IdentityKind tags which signal an IdentityKey was resolved from.
type IdentityKind string

// Identity kinds, strongest signal first.
const (
	IdentityRootDomain IdentityKind = "root_domain"
	IdentityDomain     IdentityKind = "domain"
	IdentityCompany    IdentityKind = "company"
	IdentityNone       IdentityKind = ""
)

// IdentityKey is the resolved, tagged identity of a record. Two records
// share an identity only when both the kind and the value are equal: a
// RootDomain key never matches a Company key even if the strings
// coincide.
type IdentityKey struct {
	Kind  IdentityKind
	Value string
}

// IsZero reports whether the record resolved to no identity at all.
func (k IdentityKey) IsZero() bool {
	return k.Kind == IdentityNone
}

// String renders the key in "kind:value" form for counter keys, logs,
// and breakdown columns.
func (k IdentityKey) String() string {
	if k.IsZero() {
		return ""
	}
	return string(k.Kind) + ":" + k.Value
}

// ResolvedIdentity carries an identity key together with the raw
// signals it was derived from, for display and reporting.
type ResolvedIdentity struct {
	Key IdentityKey

	// Label is the human-readable form: "{company} ({root})" when both
	// signals exist, otherwise whichever is present.
	Label string

	// Domain is the exact lowercased domain, when mapped and non-blank.
	Domain string

	// Company is the normalised company name, when mapped and non-blank.
	Company string

	// RootDomain is the registrable label of Domain, when resolvable.
	RootDomain string
}

// ResolveIdentity produces the canonical identity of a record from its
// company and domain signals. Priority: root domain, then exact domain,
// then normalised company name. Unmapped roles contribute nothing; a
// record with no usable signal resolves to the zero key and cannot be
// counted or flagged by identity-keyed checks.
func ResolveIdentity(rec Record, mapping FieldMapping, companyRole, domainRole Role) ResolvedIdentity {
	var resolved ResolvedIdentity

	if raw := mapping.Value(rec, domainRole); raw != "" && !isNullish(raw) {
		resolved.Domain = normalise.Domain(raw)
		resolved.RootDomain = normalise.RootDomain(raw)
	}
	if raw := mapping.Value(rec, companyRole); raw != "" {
		resolved.Company = normalise.Company(raw)
	}

	switch {
	case resolved.RootDomain != "":
		resolved.Key = IdentityKey{Kind: IdentityRootDomain, Value: resolved.RootDomain}
		if resolved.Company != "" {
			resolved.Label = resolved.Company + " (" + resolved.RootDomain + ")"
		} else {
			resolved.Label = resolved.RootDomain
		}
	case resolved.Domain != "":
		resolved.Key = IdentityKey{Kind: IdentityDomain, Value: resolved.Domain}
		resolved.Label = resolved.Domain
	case resolved.Company != "":
		resolved.Key = IdentityKey{Kind: IdentityCompany, Value: resolved.Company}
		resolved.Label = resolved.Company
	}

	return resolved
}

// isNullish filters the placeholder strings spreadsheets commonly carry
// in empty domain cells.
func isNullish(value string) bool {
	switch value {
	case "none", "None", "NONE", "null", "Null", "NULL", "n/a", "N/A", "N/a":
		return true
	}
	return false
}
