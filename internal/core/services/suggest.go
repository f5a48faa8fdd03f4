package services

import (
	"strings"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
)

// roleKeywords drives mapping suggestions: a header containing any of a
// role's keywords (case-insensitive) is a candidate for that role. Both
// sides of the mapping share the same vocabulary.
var roleKeywords = map[domain.Role][]string{
	domain.RoleLeadCompany: {"company", "organization", "org", "employer", "account"},
	domain.RoleLeadTAL:     {"tal"},
	domain.RoleLeadDomain:  {"domain", "website", "url", "web"},
	domain.RoleLeadEmail:   {"email"},
	domain.RoleLeadLink:    {"linkedin"},
	domain.RoleLeadFirst:   {"first"},
	domain.RoleLeadLast:    {"last"},
	domain.RoleLeadPhone:   {"phone", "number", "tel", "mobile"},

	domain.RoleDeliveryCompany: {"company", "organization", "org", "employer", "account"},
	domain.RoleDeliveryTAL:     {"tal"},
	domain.RoleDeliveryDomain:  {"domain", "website", "url", "web"},
	domain.RoleDeliveryEmail:   {"email"},
	domain.RoleDeliveryLink:    {"linkedin"},
	domain.RoleDeliveryFirst:   {"first"},
	domain.RoleDeliveryLast:    {"last"},
	domain.RoleDeliveryPhone:   {"phone", "number", "tel", "mobile"},
}

// SuggestColumns returns the headers matching a role's keywords, in
// header order.
func SuggestColumns(headers []string, role domain.Role) []string {
	keywords := roleKeywords[role]
	var out []string
	for _, h := range headers {
		lower := strings.ToLower(h)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				out = append(out, h)
				break
			}
		}
	}
	return out
}

// SuggestMapping pre-fills a mapping for the given roles from the file
// headers: the first matching header wins, and a header is never
// suggested for two roles.
func SuggestMapping(headers []string, roles []domain.Role) domain.FieldMapping {
	mapping := make(domain.FieldMapping)
	taken := make(map[string]bool)
	for _, role := range roles {
		for _, candidate := range SuggestColumns(headers, role) {
			if !taken[candidate] {
				mapping[role] = candidate
				taken[candidate] = true
				break
			}
		}
	}
	return mapping
}
