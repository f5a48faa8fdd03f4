package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadscreen-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/permute"
)

func TestParseChecks(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    domain.CheckSelection
		wantErr error
	}{
		{name: "all", value: "all", want: domain.AllChecks()},
		{name: "cpc only", value: "cpc", want: domain.CheckSelection{CPC: true}},
		{name: "dup alias", value: "dup", want: domain.CheckSelection{Duplicates: true}},
		{name: "duplicates", value: "duplicates", want: domain.CheckSelection{Duplicates: true}},
		{name: "combined", value: "cpc,phone", want: domain.CheckSelection{CPC: true, Phone: true}},
		{name: "spaces and case", value: " CPC , Phone ", want: domain.CheckSelection{CPC: true, Phone: true}},
		{name: "unknown", value: "cpc,bogus", wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseChecks(tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "leads_screened.csv", defaultOutputPath("leads.csv"))
	assert.Equal(t, "data/leads_screened.xlsx", defaultOutputPath("data/leads.xlsx"))
	assert.Equal(t, "leads_screened", defaultOutputPath("leads"))
}

func TestScreenable(t *testing.T) {
	assert.True(t, screenable("leads.csv"))
	assert.True(t, screenable("/drop/Leads.XLSX"))
	assert.False(t, screenable("leads.json"))
	assert.False(t, screenable("leads_screened.csv"))
	assert.False(t, screenable("notes.txt"))
}

func TestScreenFile_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	leadPath := filepath.Join(dir, "leads.csv")
	content := "Email,Domain\njane@acme.com,acme.com\njane@acme.com,acme.com\n"
	require.NoError(t, os.WriteFile(leadPath, []byte(content), 0o644))

	output := filepath.Join(dir, "out.csv")
	stats, err := screenFile(context.Background(), screenConfig{
		LeadFile:   leadPath,
		OutputFile: output,
		Mapping: domain.FieldMapping{
			domain.RoleLeadEmail:  "Email",
			domain.RoleLeadDomain: "Domain",
		},
		Checks: domain.AllChecks(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ModeInternal, stats.Mode)
	assert.Equal(t, 1, stats.Passed)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(written), domain.ColumnLeadStatus)
	assert.Contains(t, string(written), domain.StatusDisqualified)
}

func TestScreenFile_EmptyLeadFile(t *testing.T) {
	dir := t.TempDir()
	leadPath := filepath.Join(dir, "leads.csv")
	require.NoError(t, os.WriteFile(leadPath, []byte("Email,Domain\n"), 0o644))

	_, err := screenFile(context.Background(), screenConfig{
		LeadFile:   leadPath,
		OutputFile: filepath.Join(dir, "out.csv"),
		Mapping:    domain.FieldMapping{domain.RoleLeadEmail: "Email"},
		Checks:     domain.AllChecks(),
	})
	assert.ErrorIs(t, err, domain.ErrNoLeadRecords)
}

func TestResolveCPCLimit_FlagWins(t *testing.T) {
	assert.Equal(t, 5, resolveCPCLimit(5))
}

func TestResolvePermuteOptions(t *testing.T) {
	// Without a config store the suppression preset is used as-is.
	assert.Equal(t, permute.Suppression(), resolvePermuteOptions())

	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	configStore = store
	t.Cleanup(func() { configStore = nil })

	// Unset keys leave the preset untouched.
	assert.Equal(t, permute.Suppression(), resolvePermuteOptions())

	require.NoError(t, store.Set(file.KeyTokenBudget, 25))
	require.NoError(t, store.Set(file.KeyTokenMinLen, 2))
	assert.Equal(t, permute.Options{TokenMinLen: 2, Budget: 25, TokenMode: true}, resolvePermuteOptions())

	// An explicit false for token mode is honoured.
	require.NoError(t, store.Set(file.KeyTokenMode, false))
	assert.False(t, resolvePermuteOptions().TokenMode)
}
