package domain

import "time"

// Run is a persisted record of one screening run, for history listing
// and trend reporting.
type Run struct {
	// ID is the unique identifier for the run.
	ID string

	// Mode is the check mode the run used.
	Mode CheckMode

	// LeadFile is the path of the screened lead file.
	LeadFile string

	// DeliveryFile is the path of the delivery file, empty in internal
	// mode.
	DeliveryFile string

	// CPCLimit is the contacts-per-company limit the run enforced.
	CPCLimit int

	// StartedAt is when the run began.
	StartedAt time.Time

	// Duration is how long the run took.
	Duration time.Duration

	// TotalLeads is the number of lead records screened.
	TotalLeads int

	// Passed is the number of lead records left undisqualified.
	Passed int

	// ViolationCount is the total number of violations recorded.
	ViolationCount int
}
