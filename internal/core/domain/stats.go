package domain

import "time"

// StringSet tracks distinct values seen during a pass.
type StringSet map[string]struct{}

// Add inserts a value, ignoring blanks.
func (s StringSet) Add(value string) {
	if value != "" {
		s[value] = struct{}{}
	}
}

// Has reports membership.
func (s StringSet) Has(value string) bool {
	_, ok := s[value]
	return ok
}

// CPCStats is the result of one CPC pass.
type CPCStats struct {
	Violations  int
	Companies   StringSet
	Domains     StringSet
	RootDomains StringSet

	// RootDomainCompany remembers the first company name seen per root
	// domain, for reporting.
	RootDomainCompany map[string]string

	Details []Violation
}

// NewCPCStats returns an empty, fully initialised CPCStats.
func NewCPCStats() *CPCStats {
	return &CPCStats{
		Companies:         make(StringSet),
		Domains:           make(StringSet),
		RootDomains:       make(StringSet),
		RootDomainCompany: make(map[string]string),
	}
}

// DuplicateStats is the result of one duplicate pass.
type DuplicateStats struct {
	// External counts matches against the delivery set.
	External int

	// Internal counts matches within the lead set.
	Internal int

	// PermutationErrors counts records whose permutation generation
	// failed; those records keep only their exact signatures.
	PermutationErrors int

	Details []Violation
}

// PhoneStats is the result of one phone-conflict pass.
type PhoneStats struct {
	Conflicts int
	Details   []Violation
}

// RunStats aggregates everything one screening run produced. Returned
// to the caller at the end of a run and immutable afterwards.
type RunStats struct {
	RunID          string
	Mode           CheckMode
	TotalLeads     int
	Passed         int
	ProcessingTime time.Duration

	CPC                *CPCStats
	InternalCPC        *CPCStats
	Duplicates         *DuplicateStats
	InternalDuplicates *DuplicateStats
	Phone              *PhoneStats
	InternalPhone      *PhoneStats
}

// Violations flattens every per-check detail list, in check order.
func (s *RunStats) Violations() []Violation {
	var out []Violation
	for _, stats := range []*CPCStats{s.CPC, s.InternalCPC} {
		if stats != nil {
			out = append(out, stats.Details...)
		}
	}
	for _, stats := range []*DuplicateStats{s.Duplicates, s.InternalDuplicates} {
		if stats != nil {
			out = append(out, stats.Details...)
		}
	}
	for _, stats := range []*PhoneStats{s.Phone, s.InternalPhone} {
		if stats != nil {
			out = append(out, stats.Details...)
		}
	}
	return out
}

// ViolationCount returns the total number of violations across checks.
func (s *RunStats) ViolationCount() int {
	return len(s.Violations())
}
