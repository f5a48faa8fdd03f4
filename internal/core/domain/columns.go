package domain

// Output column names written by the checks. The status, reason, and
// comment columns can be renamed via configuration; the count columns
// are a fixed contract because downstream QA tooling reads them by
// name.
const (
	ColumnLeadStatus = "Lead Status"
	ColumnDQReason   = "DQ Reason"
	ColumnQAComment  = "QA Comment"

	ColumnCPCPrimary   = "CPC by Root Domain Primary"
	ColumnCPCBreakdown = "CPC Breakdown"

	ColumnCPCCompany    = "CPC by Company Name"
	ColumnCPCTAL        = "CPC by TAL Company Name"
	ColumnCPCDomain     = "CPC by Domain"
	ColumnCPCRootDomain = "CPC by Root Domain"

	ColumnInternalCPCCompany    = "Internal CPC by Company"
	ColumnInternalCPCTAL        = "Internal CPC by TAL Company"
	ColumnInternalCPCDomain     = "Internal CPC by Domain"
	ColumnInternalCPCRootDomain = "Internal CPC by Root Domain"

	ColumnPhoneConflicts         = "Phone Conflicts"
	ColumnInternalPhoneConflicts = "Internal Phone Conflicts"
)
