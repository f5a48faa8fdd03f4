package mapping

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
)

func press(m *Model, keys ...string) *Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(*Model)
	}
	return m
}

func TestNew_PrefillsFromInitialMapping(t *testing.T) {
	headers := []string{"First Name", "Email", "Company"}
	initial := domain.FieldMapping{
		domain.RoleLeadEmail:   "Email",
		domain.RoleLeadCompany: "Company",
	}

	m := New(headers, nil, initial)

	mapping := m.Mapping()
	assert.Equal(t, "Email", mapping[domain.RoleLeadEmail])
	assert.Equal(t, "Company", mapping[domain.RoleLeadCompany])
	assert.NotContains(t, mapping, domain.RoleLeadFirst)
}

func TestNew_OmitsDeliveryRolesWithoutHeaders(t *testing.T) {
	leadOnly := New([]string{"Email"}, nil, nil)
	assert.Len(t, leadOnly.rows, len(domain.LeadRoles))

	both := New([]string{"Email"}, []string{"Email"}, nil)
	assert.Len(t, both.rows, len(domain.LeadRoles)+len(domain.DeliveryRoles))
}

func TestModel_CycleWrapsThroughUnmapped(t *testing.T) {
	m := New([]string{"A", "B"}, nil, nil)

	// The first row starts unmapped; cycling walks A, B, unmapped.
	m = press(m, "l")
	assert.Equal(t, "A", m.Mapping()[m.rows[0].role])

	m = press(m, "l")
	assert.Equal(t, "B", m.Mapping()[m.rows[0].role])

	m = press(m, "l")
	assert.NotContains(t, m.Mapping(), m.rows[0].role)

	m = press(m, "h")
	assert.Equal(t, "B", m.Mapping()[m.rows[0].role])
}

func TestModel_ClearUnmaps(t *testing.T) {
	m := New([]string{"Email"}, nil, domain.FieldMapping{domain.RoleLeadCompany: "Email"})

	require.Contains(t, m.Mapping(), domain.RoleLeadCompany)
	m = press(m, "x")
	assert.NotContains(t, m.Mapping(), domain.RoleLeadCompany)
}

func TestModel_CursorMovement(t *testing.T) {
	m := New([]string{"A"}, nil, nil)

	assert.Equal(t, 0, m.cursor)
	m = press(m, "j", "j")
	assert.Equal(t, 2, m.cursor)
	m = press(m, "k")
	assert.Equal(t, 1, m.cursor)

	// The cursor never leaves the row list.
	for i := 0; i < 20; i++ {
		m = press(m, "j")
	}
	assert.Equal(t, len(m.rows)-1, m.cursor)
}

func TestModel_SaveAndQuit(t *testing.T) {
	m := New([]string{"Email"}, nil, nil)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	assert.True(t, m.Saved())
	require.NotNil(t, cmd)

	cancelled := New([]string{"Email"}, nil, nil)
	updated, cmd = cancelled.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	cancelled = updated.(*Model)
	assert.False(t, cancelled.Saved())
	require.NotNil(t, cmd)
}

func TestModel_FilterJumpsToMatch(t *testing.T) {
	m := New([]string{"First Name", "Work Email", "Company"}, nil, nil)

	// Open the filter, type "email", confirm.
	m = press(m, "/")
	assert.True(t, m.filtering)
	m = press(m, "e", "m", "a", "i", "l", "enter")

	assert.False(t, m.filtering)
	assert.Equal(t, "Work Email", m.Mapping()[m.rows[0].role])
}

func TestModel_FilterEscCancels(t *testing.T) {
	m := New([]string{"Email"}, nil, nil)

	m = press(m, "/", "e", "esc")
	assert.False(t, m.filtering)
	assert.NotContains(t, m.Mapping(), m.rows[0].role)
}

func TestModel_View(t *testing.T) {
	m := New([]string{"Email"}, []string{"Email"}, domain.FieldMapping{domain.RoleLeadEmail: "Email"})

	view := m.View()
	assert.Contains(t, view, "Column Mapping")
	assert.Contains(t, view, "Lead file")
	assert.Contains(t, view, "Delivery file")
	assert.Contains(t, view, "TAL Company")
	assert.Contains(t, view, domain.NotAvailable)
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "Company", roleLabel(domain.RoleLeadCompany))
	assert.Equal(t, "TAL Company", roleLabel(domain.RoleDeliveryTAL))
	assert.Equal(t, "LinkedIn URL", roleLabel(domain.RoleLeadLink))
	assert.Equal(t, "First Name", roleLabel(domain.RoleLeadFirst))
	assert.Equal(t, "Phone", roleLabel(domain.RoleLeadPhone))
}
