package domain

// CheckMode selects which reference set lead records are screened
// against.
type CheckMode string

const (
	// ModeInternal screens the lead set against itself only. Used for
	// a first delivery, where no prior delivery file exists.
	ModeInternal CheckMode = "internal"

	// ModeExternal screens the lead set against a delivery file first,
	// then additionally runs the internal checks on the lead set.
	ModeExternal CheckMode = "external"
)

// IsValid returns true if the mode is recognised.
func (m CheckMode) IsValid() bool {
	return m == ModeInternal || m == ModeExternal
}

// String returns the string representation.
func (m CheckMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m CheckMode) Description() string {
	switch m {
	case ModeInternal:
		return "Internal (lead file only, first delivery)"
	case ModeExternal:
		return "External (lead file against delivery, then internal)"
	default:
		return "Unknown"
	}
}

// CheckSelection enables or disables individual checks for a run.
type CheckSelection struct {
	CPC        bool
	Duplicates bool
	Phone      bool
}

// AllChecks enables every check.
func AllChecks() CheckSelection {
	return CheckSelection{CPC: true, Duplicates: true, Phone: true}
}

// Any reports whether at least one check is enabled.
func (c CheckSelection) Any() bool {
	return c.CPC || c.Duplicates || c.Phone
}
