package domain

import "strings"

// Role identifies the logical meaning of a mapped column.
type Role string

// Lead-side roles.
const (
	RoleLeadCompany Role = "lead_company"
	RoleLeadTAL     Role = "lead_tal"
	RoleLeadDomain  Role = "lead_domain"
	RoleLeadEmail   Role = "lead_email"
	RoleLeadLink    Role = "lead_linkedin"
	RoleLeadFirst   Role = "lead_first"
	RoleLeadLast    Role = "lead_last"
	RoleLeadPhone   Role = "lead_phone"
)

// Delivery-side roles.
const (
	RoleDeliveryCompany Role = "delivery_company"
	RoleDeliveryTAL     Role = "delivery_tal"
	RoleDeliveryDomain  Role = "delivery_domain"
	RoleDeliveryEmail   Role = "delivery_email"
	RoleDeliveryLink    Role = "delivery_linkedin"
	RoleDeliveryFirst   Role = "delivery_first"
	RoleDeliveryLast    Role = "delivery_last"
	RoleDeliveryPhone   Role = "delivery_phone"
)

// LeadRoles lists every lead-side role in display order.
var LeadRoles = []Role{
	RoleLeadCompany, RoleLeadTAL, RoleLeadDomain, RoleLeadEmail,
	RoleLeadLink, RoleLeadFirst, RoleLeadLast, RoleLeadPhone,
}

// DeliveryRoles lists every delivery-side role in display order.
var DeliveryRoles = []Role{
	RoleDeliveryCompany, RoleDeliveryTAL, RoleDeliveryDomain, RoleDeliveryEmail,
	RoleDeliveryLink, RoleDeliveryFirst, RoleDeliveryLast, RoleDeliveryPhone,
}

// NotAvailable is the sentinel accepted at the serialization edge
// (mapping files, saved presets) to mean "this role is unmapped". It is
// converted to role absence when a mapping is loaded; inside the engine
// an unmapped role is simply missing from the FieldMapping.
const NotAvailable = "Not Available"

// FieldMapping maps logical roles to concrete column names. A missing
// role contributes no signal; it never fails resolution.
type FieldMapping map[Role]string

// Column returns the mapped column for a role. The second return is
// false when the role is unmapped. The NotAvailable sentinel is treated
// as unmapped in case it leaked through a hand-edited mapping file.
func (m FieldMapping) Column(role Role) (string, bool) {
	col, ok := m[role]
	if !ok || strings.TrimSpace(col) == "" || col == NotAvailable {
		return "", false
	}
	return col, true
}

// Value extracts the trimmed value of a role from a record, or "" when
// the role is unmapped or the cell is blank.
func (m FieldMapping) Value(rec Record, role Role) string {
	col, ok := m.Column(role)
	if !ok {
		return ""
	}
	return rec.Get(col)
}

// LeadView returns a lead-only mapping where every delivery role has
// been dropped. Internal checks after an external pass run against the
// lead set alone and must not see delivery columns.
func (m FieldMapping) LeadView() FieldMapping {
	view := make(FieldMapping, len(m))
	for role, col := range m {
		if strings.HasPrefix(string(role), "lead_") {
			view[role] = col
		}
	}
	return view
}
