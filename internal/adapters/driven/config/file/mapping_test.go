package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
)

func TestSaveLoadMapping_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.toml")

	mapping := domain.FieldMapping{
		domain.RoleLeadEmail:       "Email Address",
		domain.RoleLeadCompany:     "Company",
		domain.RoleDeliveryEmail:   "Email",
		domain.RoleDeliveryCompany: "Account Name",
	}
	require.NoError(t, SaveMapping(path, mapping))

	loaded, err := LoadMapping(path)
	require.NoError(t, err)

	// Only the mapped roles survive; sentinel entries are dropped.
	assert.Equal(t, mapping, loaded)
}

func TestSaveMapping_WritesSentinelForUnmapped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.toml")
	require.NoError(t, SaveMapping(path, domain.FieldMapping{
		domain.RoleLeadEmail: "Email",
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), domain.NotAvailable)
	assert.Contains(t, string(data), "lead_phone")
}

func TestLoadMapping_SentinelAndBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.toml")
	content := `lead_email = "Email"
lead_phone = "Not Available"
lead_company = "  "
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	mapping, err := LoadMapping(path)
	require.NoError(t, err)

	assert.Equal(t, domain.FieldMapping{domain.RoleLeadEmail: "Email"}, mapping)
}

func TestLoadMapping_Missing(t *testing.T) {
	_, err := LoadMapping(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
