package domain

// RuleKind identifies which screening rule a violation came from.
type RuleKind string

// Screening rules.
const (
	RuleCPC               RuleKind = "cpc"
	RuleInternalCPC       RuleKind = "internal_cpc"
	RuleDuplicate         RuleKind = "duplicate"
	RuleInternalDuplicate RuleKind = "internal_duplicate"
	RulePhone             RuleKind = "phone_conflict"
	RuleInternalPhone     RuleKind = "internal_phone_conflict"
)

// Disqualification reasons written to the reason column. These are the
// fixed strings downstream QA tooling filters on.
const (
	ReasonExtraCPC          = "Extra CPC"
	ReasonInternalCPC       = "Internal CPC Exceeded"
	ReasonDuplicate         = "Same Prospect Duplicate"
	ReasonInternalDuplicate = "Internal Duplicate"
)

// StatusDisqualified is the fixed marker written to the status column.
const StatusDisqualified = "Disqualified"

// Violation records one rule breach against one lead row. Created when
// a check fires, written out immediately, never mutated afterward.
type Violation struct {
	// ID is a unique identifier for run-history storage.
	ID string

	// Row is the spreadsheet row of the offending lead record.
	Row int

	// Rule is the screening rule that fired.
	Rule RuleKind

	// Reason is the fixed disqualification reason for the reason column.
	Reason string

	// Limit is the configured threshold, for CPC rules.
	Limit int

	// Observed is the running total that breached the limit, for CPC
	// rules.
	Observed int

	// Message is the free-text explanation appended to the comment
	// column.
	Message string
}
