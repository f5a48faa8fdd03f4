package file

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
)

// LoadMapping reads a field mapping from a TOML file of role = column
// pairs. The "Not Available" sentinel and blank values are accepted and
// converted to role absence, so hand-edited exports of older mappings
// keep working.
func LoadMapping(path string) (domain.FieldMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping %s: %w", path, err)
	}

	var raw map[string]string
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing mapping %s: %w", path, err)
	}

	mapping := make(domain.FieldMapping, len(raw))
	for key, column := range raw {
		column = strings.TrimSpace(column)
		if column == "" || column == domain.NotAvailable {
			continue
		}
		mapping[domain.Role(key)] = column
	}
	return mapping, nil
}

// SaveMapping writes a field mapping as a TOML file. Unmapped roles are
// written with the "Not Available" sentinel so the file lists every
// role a later edit could fill in.
func SaveMapping(path string, mapping domain.FieldMapping) error {
	raw := make(map[string]string, len(domain.LeadRoles)+len(domain.DeliveryRoles))
	for _, roles := range [][]domain.Role{domain.LeadRoles, domain.DeliveryRoles} {
		for _, role := range roles {
			if column, ok := mapping.Column(role); ok {
				raw[string(role)] = column
			} else {
				raw[string(role)] = domain.NotAvailable
			}
		}
	}

	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding mapping: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing mapping %s: %w", path, err)
	}
	return nil
}
