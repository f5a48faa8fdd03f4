package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadscreen-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/permute"
)

func TestDuplicateChecker_Run_EmailMatch(t *testing.T) {
	sink := memory.NewAnnotationSink()
	checker := NewDuplicateChecker(sink, permute.Suppression())

	delivery := records(
		map[string]string{"Email": "jane@acme.com"},
	)
	leads := records(
		map[string]string{"Email": "JANE@ACME.COM"},
		map[string]string{"Email": "other@acme.com"},
	)

	stats, err := checker.Run(delivery, leads, fullMapping())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusDisqualified, sink.Status(2))
	assert.Equal(t, domain.ReasonDuplicate, sink.Reason(2))
	assert.Equal(t, "Same Prospect Same Campaign - Email match in delivery", sink.Comment(2))
	assert.Empty(t, sink.Status(3))

	assert.Equal(t, 1, stats.External)
	assert.Zero(t, stats.Internal)
}

func TestDuplicateChecker_Run_LinkMatch(t *testing.T) {
	sink := memory.NewAnnotationSink()
	checker := NewDuplicateChecker(sink, permute.Suppression())

	delivery := records(
		map[string]string{"LinkedIn": "https://linkedin.com/in/janedoe"},
	)
	leads := records(
		map[string]string{"LinkedIn": "https://LinkedIn.com/in/JaneDoe"},
	)

	stats, err := checker.Run(delivery, leads, fullMapping())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.External)
	assert.Contains(t, sink.Comment(2), "LinkedIn match in delivery")
}

func TestDuplicateChecker_Run_PermutationMatch(t *testing.T) {
	sink := memory.NewAnnotationSink()
	checker := NewDuplicateChecker(sink, permute.Suppression())

	// No exact signature overlap; the delivered prospect's generated
	// addresses cover the lead's.
	delivery := records(
		map[string]string{"First Name": "John", "Last Name": "Smith", "Domain": "acme.com", "Email": "jsmith@acme.com"},
	)
	leads := records(
		map[string]string{"First Name": "John", "Last Name": "Smith", "Domain": "acme.com", "Email": "john.smith@acme.com"},
	)

	stats, err := checker.Run(delivery, leads, fullMapping())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.External)
	assert.Equal(t, "Same Prospect Same Campaign - Email permutation match in delivery", sink.Comment(2))
}

func TestDuplicateChecker_Run_PermutationOptionsConstrain(t *testing.T) {
	// The only shared candidate is lee@acme.com: the lead side emits it
	// from its core patterns, the delivery side only through token
	// expansion of the compound first name.
	delivery := records(
		map[string]string{"First Name": "Anna Lee", "Last Name": "Wong", "Domain": "acme.com"},
	)
	leads := records(
		map[string]string{"First Name": "Lee", "Last Name": "Smith", "Domain": "acme.com"},
	)

	sink := memory.NewAnnotationSink()
	checker := NewDuplicateChecker(sink, permute.Suppression())
	stats, err := checker.Run(delivery, leads, fullMapping())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.External)
	assert.Equal(t, "Same Prospect Same Campaign - Email permutation match in delivery", sink.Comment(2))

	// With the token budget exhausted the expanded forms never appear
	// and the rows stay apart.
	sink = memory.NewAnnotationSink()
	checker = NewDuplicateChecker(sink, permute.Options{TokenMinLen: 1, Budget: 0, TokenMode: true})
	stats, err = checker.Run(delivery, leads, fullMapping())
	require.NoError(t, err)
	assert.Zero(t, stats.External)
	assert.Empty(t, sink.Status(2))

	// Same outcome when token mode is off entirely.
	sink = memory.NewAnnotationSink()
	checker = NewDuplicateChecker(sink, permute.Options{TokenMinLen: 1, Budget: 100, TokenMode: false})
	stats, err = checker.Run(delivery, leads, fullMapping())
	require.NoError(t, err)
	assert.Zero(t, stats.External)
}

func TestDuplicateChecker_Run_InternalFallback(t *testing.T) {
	sink := memory.NewAnnotationSink()
	checker := NewDuplicateChecker(sink, permute.Suppression())

	leads := records(
		map[string]string{"Email": "jane@acme.com"},
		map[string]string{"Email": "jane@acme.com"},
	)

	stats, err := checker.Run(nil, leads, fullMapping())
	require.NoError(t, err)

	assert.Empty(t, sink.Status(2))
	assert.Equal(t, domain.StatusDisqualified, sink.Status(3))
	assert.Equal(t, domain.ReasonInternalDuplicate, sink.Reason(3))
	assert.Equal(t, "Duplicate within file - Internal duplicate email", sink.Comment(3))
	assert.Equal(t, 1, stats.Internal)
	assert.Zero(t, stats.External)
}

func TestDuplicateChecker_Run_ExternalPriority(t *testing.T) {
	sink := memory.NewAnnotationSink()
	checker := NewDuplicateChecker(sink, permute.Suppression())

	delivery := records(
		map[string]string{"Email": "jane@acme.com"},
	)
	// The second lead matches both the delivery and the first lead; it
	// gets one external violation carrying both findings.
	leads := records(
		map[string]string{"Email": "jane@acme.com"},
		map[string]string{"Email": "jane@acme.com"},
	)

	stats, err := checker.Run(delivery, leads, fullMapping())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.External)
	assert.Zero(t, stats.Internal)
	assert.Equal(t, domain.ReasonDuplicate, sink.Reason(3))
	assert.Contains(t, sink.Comment(3), "Email match in delivery")
	assert.Contains(t, sink.Comment(3), "Internal duplicate email")
}

func TestDuplicateChecker_Run_DisqualifiedRowsSkipped(t *testing.T) {
	sink := memory.NewAnnotationSink()
	require.NoError(t, sink.SetStatusIfAbsent(2, domain.StatusDisqualified))

	checker := NewDuplicateChecker(sink, permute.Suppression())
	leads := records(
		map[string]string{"Email": "jane@acme.com"},
		map[string]string{"Email": "jane@acme.com"},
		map[string]string{"Email": "jane@acme.com"},
	)

	stats, err := checker.Run(nil, leads, fullMapping())
	require.NoError(t, err)

	// Row 2 is already out and contributes no signature; row 3 becomes
	// the first live occurrence and only row 4 duplicates it.
	assert.Empty(t, sink.Status(3))
	assert.Equal(t, domain.StatusDisqualified, sink.Status(4))
	assert.Equal(t, 1, stats.Internal)
}

func TestDuplicateChecker_Run_PermutationSkippedWhenUnmapped(t *testing.T) {
	sink := memory.NewAnnotationSink()
	checker := NewDuplicateChecker(sink, permute.Suppression())

	mapping := domain.FieldMapping{
		domain.RoleLeadEmail:     "Email",
		domain.RoleDeliveryEmail: "Email",
	}
	delivery := records(
		map[string]string{"First Name": "John", "Last Name": "Smith", "Domain": "acme.com"},
	)
	leads := records(
		map[string]string{"First Name": "John", "Last Name": "Smith", "Domain": "acme.com"},
	)

	stats, err := checker.Run(delivery, leads, mapping)
	require.NoError(t, err)
	assert.Zero(t, stats.External)
	assert.Empty(t, sink.Status(2))
}

func TestInternalDuplicateChecker_Run_ExactAndLink(t *testing.T) {
	sink := memory.NewAnnotationSink()
	checker := NewInternalDuplicateChecker(sink)

	leads := records(
		map[string]string{"Email": "jane@acme.com", "LinkedIn": "https://www.linkedin.com/in/janedoe/"},
		map[string]string{"Email": "Jane@Acme.com"},
		map[string]string{"LinkedIn": "http://linkedin.com/in/JaneDoe?utm=x"},
	)

	stats, err := checker.Run(leads, fullMapping().LeadView())
	require.NoError(t, err)

	assert.Empty(t, sink.Status(2))
	assert.Equal(t, "Duplicate within file - Internal duplicate email", sink.Comment(3))
	assert.Equal(t, "Duplicate within file - Internal duplicate LinkedIn", sink.Comment(4))
	assert.Equal(t, 2, stats.Internal)
}

func TestInternalDuplicateChecker_Run_NameDomainMatch(t *testing.T) {
	sink := memory.NewAnnotationSink()
	checker := NewInternalDuplicateChecker(sink)

	leads := records(
		map[string]string{"First Name": "John", "Last Name": "Smith", "Domain": "acme.com", "Email": "j1@acme.com"},
		map[string]string{"First Name": "John", "Last Name": "Smith", "Domain": "mail.acme.com", "Email": "j2@acme.com"},
	)

	stats, err := checker.Run(leads, fullMapping().LeadView())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusDisqualified, sink.Status(3))
	assert.Contains(t, sink.Comment(3), "Internal duplicate name+root domain match")
	assert.Equal(t, 1, stats.Internal)
}

func TestInternalDuplicateChecker_Run_ConservativeNoFalsePositive(t *testing.T) {
	sink := memory.NewAnnotationSink()
	checker := NewInternalDuplicateChecker(sink)

	// Different people on a shared domain must not match.
	leads := records(
		map[string]string{"First Name": "Jonathan", "Last Name": "Kyle", "Domain": "acme.com"},
		map[string]string{"First Name": "Kyle", "Last Name": "Fleming", "Domain": "acme.com"},
	)

	stats, err := checker.Run(leads, fullMapping().LeadView())
	require.NoError(t, err)

	assert.Empty(t, sink.Status(2))
	assert.Empty(t, sink.Status(3))
	assert.Zero(t, stats.Internal)
}

func TestConservativeSignatures(t *testing.T) {
	signatures := conservativeSignatures("Jane", "Smithson", "mail.acme.com")
	assert.Equal(t, []string{
		"jane.smithson@acme",
		"janesmithson@acme",
		"jane.smi@acme",
		"janesmi@acme",
	}, signatures)

	// Short last names skip the prefix forms.
	assert.Len(t, conservativeSignatures("Jane", "Wu", "acme.com"), 2)

	assert.Nil(t, conservativeSignatures("", "Doe", "acme.com"))
	assert.Nil(t, conservativeSignatures("Jane", "Doe", ""))
}
