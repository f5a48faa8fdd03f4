package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadscreen-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/core/ports/driving"
	"github.com/custodia-labs/leadscreen-cli/internal/permute"
)

func TestScreeningService_Screen_Validation(t *testing.T) {
	svc := NewScreeningService(memory.NewAnnotationSink(), nil)
	ctx := context.Background()

	_, err := svc.Screen(ctx, driving.ScreenRequest{
		Mapping: fullMapping(),
		Checks:  domain.AllChecks(),
	})
	assert.ErrorIs(t, err, domain.ErrNoLeadRecords)

	_, err = svc.Screen(ctx, driving.ScreenRequest{
		Leads:  records(map[string]string{"Email": "a@b.com"}),
		Checks: domain.AllChecks(),
	})
	assert.ErrorIs(t, err, domain.ErrMappingRequired)

	_, err = svc.Screen(ctx, driving.ScreenRequest{
		Leads:   records(map[string]string{"Email": "a@b.com"}),
		Mapping: fullMapping(),
	})
	assert.ErrorIs(t, err, domain.ErrNoChecksSelected)
}

func TestScreeningService_Screen_InternalMode(t *testing.T) {
	sink := memory.NewAnnotationSink()
	svc := NewScreeningService(sink, nil)

	leads := records(
		map[string]string{"Email": "jane@acme.com", "Domain": "acme.com"},
		map[string]string{"Email": "jane@acme.com", "Domain": "acme.com"},
	)

	stats, err := svc.Screen(context.Background(), driving.ScreenRequest{
		Leads:   leads,
		Mapping: fullMapping(),
		Checks:  domain.AllChecks(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ModeInternal, stats.Mode)
	assert.Equal(t, 2, stats.TotalLeads)
	assert.Equal(t, 1, stats.Passed)
	assert.NotEmpty(t, stats.RunID)
	assert.Nil(t, stats.CPC, "external checks skipped in internal mode")
	assert.NotNil(t, stats.InternalCPC)
	assert.NotNil(t, stats.InternalDuplicates)

	assert.Equal(t, domain.StatusDisqualified, sink.Status(3))
	assert.Contains(t, sink.Columns(), domain.ColumnLeadStatus)
	assert.Contains(t, sink.Columns(), domain.ColumnDQReason)
	assert.Contains(t, sink.Columns(), domain.ColumnQAComment)
}

func TestScreeningService_Screen_ExternalMode(t *testing.T) {
	sink := memory.NewAnnotationSink()
	store := memory.NewRunStore()
	svc := NewScreeningService(sink, store)
	ctx := context.Background()

	delivery := records(
		map[string]string{"Email": "jane@acme.com", "Domain": "acme.com"},
	)
	leads := records(
		map[string]string{"Email": "jane@acme.com", "Domain": "acme.com"},
		map[string]string{"Email": "fresh@newco.com", "Domain": "newco.com"},
	)

	stats, err := svc.Screen(ctx, driving.ScreenRequest{
		Delivery: delivery,
		Leads:    leads,
		Mapping:  fullMapping(),
		Checks:   domain.AllChecks(),
		CPCLimit: 3,
		LeadFile: "leads.csv",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ModeExternal, stats.Mode)
	assert.NotNil(t, stats.CPC)
	assert.NotNil(t, stats.Duplicates)
	assert.Equal(t, 1, stats.Duplicates.External)
	assert.Equal(t, 1, stats.Passed)

	saved, err := store.GetRun(ctx, stats.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeExternal, saved.Mode)
	assert.Equal(t, "leads.csv", saved.LeadFile)
	assert.Equal(t, 3, saved.CPCLimit)
	assert.Equal(t, stats.ViolationCount(), saved.ViolationCount)

	violations, err := store.ListViolations(ctx, stats.RunID)
	require.NoError(t, err)
	require.NotEmpty(t, violations)
	assert.NotEmpty(t, violations[0].ID)
}

func TestScreeningService_Screen_ChecksSubset(t *testing.T) {
	sink := memory.NewAnnotationSink()
	svc := NewScreeningService(sink, nil)

	stats, err := svc.Screen(context.Background(), driving.ScreenRequest{
		Leads:   records(map[string]string{"Email": "a@b.com"}),
		Mapping: fullMapping(),
		Checks:  domain.CheckSelection{Duplicates: true},
	})
	require.NoError(t, err)

	assert.Nil(t, stats.InternalCPC)
	assert.Nil(t, stats.InternalPhone)
	assert.NotNil(t, stats.InternalDuplicates)
}

func TestScreeningService_Screen_DefaultLimit(t *testing.T) {
	sink := memory.NewAnnotationSink()
	svc := NewScreeningService(sink, nil)

	// Four leads on one identity with the default limit of three: only
	// the fourth goes over.
	leads := records(
		map[string]string{"Domain": "acme.com"},
		map[string]string{"Domain": "acme.com"},
		map[string]string{"Domain": "acme.com"},
		map[string]string{"Domain": "acme.com"},
	)

	stats, err := svc.Screen(context.Background(), driving.ScreenRequest{
		Leads:   leads,
		Mapping: fullMapping(),
		Checks:  domain.CheckSelection{CPC: true},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Passed)
	assert.Equal(t, domain.StatusDisqualified, sink.Status(5))
}

func TestScreeningService_Screen_PermutationOptions(t *testing.T) {
	delivery := records(
		map[string]string{"First Name": "Anna Lee", "Last Name": "Wong", "Domain": "acme.com"},
	)
	leads := records(
		map[string]string{"First Name": "Lee", "Last Name": "Smith", "Domain": "acme.com"},
	)

	// The zero value falls back to the suppression preset, which runs
	// token expansion and catches the match.
	sink := memory.NewAnnotationSink()
	stats, err := NewScreeningService(sink, nil).Screen(context.Background(), driving.ScreenRequest{
		Delivery: delivery,
		Leads:    leads,
		Mapping:  fullMapping(),
		Checks:   domain.CheckSelection{Duplicates: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Duplicates.External)
	assert.Equal(t, domain.StatusDisqualified, sink.Status(2))

	// Explicit options carry through to the checker.
	sink = memory.NewAnnotationSink()
	stats, err = NewScreeningService(sink, nil).Screen(context.Background(), driving.ScreenRequest{
		Delivery:     delivery,
		Leads:        leads,
		Mapping:      fullMapping(),
		Checks:       domain.CheckSelection{Duplicates: true},
		Permutations: permute.Options{TokenMinLen: 1, Budget: 100, TokenMode: false},
	})
	require.NoError(t, err)
	assert.Zero(t, stats.Duplicates.External)
	assert.Empty(t, sink.Status(2))
}

func TestSuggestColumns(t *testing.T) {
	headers := []string{"First Name", "Last Name", "Work Email", "Company Name", "LinkedIn URL", "Direct Phone"}

	assert.Equal(t, []string{"Work Email"}, SuggestColumns(headers, domain.RoleLeadEmail))
	assert.Equal(t, []string{"Company Name"}, SuggestColumns(headers, domain.RoleLeadCompany))
	assert.Equal(t, []string{"LinkedIn URL"}, SuggestColumns(headers, domain.RoleLeadLink))
	assert.Empty(t, SuggestColumns(headers, domain.RoleLeadTAL))
}

func TestSuggestMapping(t *testing.T) {
	headers := []string{"First Name", "Last Name", "Email", "Company", "Website"}

	mapping := SuggestMapping(headers, domain.LeadRoles)

	assert.Equal(t, "First Name", mapping[domain.RoleLeadFirst])
	assert.Equal(t, "Last Name", mapping[domain.RoleLeadLast])
	assert.Equal(t, "Email", mapping[domain.RoleLeadEmail])
	assert.Equal(t, "Company", mapping[domain.RoleLeadCompany])
	assert.Equal(t, "Website", mapping[domain.RoleLeadDomain])
	assert.NotContains(t, mapping, domain.RoleLeadLink)
}

func TestSuggestMapping_NoHeaderTakenTwice(t *testing.T) {
	// "Phone Number" matches the phone keywords only; "Account Email"
	// matches both company ("account") and email, and must not be
	// claimed by both roles.
	headers := []string{"Account Email", "Phone Number"}

	mapping := SuggestMapping(headers, domain.LeadRoles)

	assert.Equal(t, "Account Email", mapping[domain.RoleLeadCompany])
	assert.NotEqual(t, "Account Email", mapping[domain.RoleLeadEmail])
	assert.Equal(t, "Phone Number", mapping[domain.RoleLeadPhone])
}
