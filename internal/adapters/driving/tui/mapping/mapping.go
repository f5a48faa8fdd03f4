// Package mapping provides the interactive column-mapping view: one
// row per screening role, cycling through the candidate headers of the
// loaded files.
package mapping

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	sectionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	unmappedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// keyMap defines the keybindings of the mapping view.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Prev   key.Binding
	Next   key.Binding
	Clear  key.Binding
	Filter key.Binding
	Save   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
		Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h", "previous column")),
		Next:   key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("l", "next column")),
		Clear:  key.NewBinding(key.WithKeys("backspace", "x"), key.WithHelp("x", "unmap")),
		Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Save:   key.NewBinding(key.WithKeys("enter", "s"), key.WithHelp("enter", "save")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "cancel")),
	}
}

// row is one role assignment line.
type row struct {
	role    domain.Role
	headers []string // candidate columns for this role's side
	index   int      // 0 means unmapped; 1..len(headers) selects headers[index-1]
}

// Model is the bubbletea model of the mapping editor.
type Model struct {
	rows      []row
	cursor    int
	keys      keyMap
	filter    textinput.Model
	filtering bool
	saved     bool
	width     int
}

// New creates a mapping editor over the given headers. Delivery headers
// may be nil for internal-only mappings; delivery roles are then
// omitted. The initial mapping pre-selects columns where they match.
func New(leadHeaders, deliveryHeaders []string, initial domain.FieldMapping) *Model {
	m := &Model{keys: defaultKeyMap()}

	for _, role := range domain.LeadRoles {
		m.rows = append(m.rows, newRow(role, leadHeaders, initial))
	}
	if len(deliveryHeaders) > 0 {
		for _, role := range domain.DeliveryRoles {
			m.rows = append(m.rows, newRow(role, deliveryHeaders, initial))
		}
	}

	filter := textinput.New()
	filter.Placeholder = "type to filter columns"
	filter.CharLimit = 64
	m.filter = filter

	return m
}

func newRow(role domain.Role, headers []string, initial domain.FieldMapping) row {
	r := row{role: role, headers: headers}
	if column, ok := initial.Column(role); ok {
		for i, h := range headers {
			if h == column {
				r.index = i + 1
				break
			}
		}
	}
	return r
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Save):
			m.saved = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Next):
			m.cycle(1)

		case key.Matches(msg, m.keys.Prev):
			m.cycle(-1)

		case key.Matches(msg, m.keys.Clear):
			m.rows[m.cursor].index = 0

		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			m.filter.SetValue("")
			return m, m.filter.Focus()
		}
	}

	return m, nil
}

// updateFilter handles keys while the filter box is focused: enter
// jumps the current role to the first matching column, esc cancels.
func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.applyFilter()
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case "esc":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m *Model) applyFilter() {
	needle := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if needle == "" {
		return
	}
	r := &m.rows[m.cursor]
	for i, h := range r.headers {
		if strings.Contains(strings.ToLower(h), needle) {
			r.index = i + 1
			return
		}
	}
}

// cycle moves the current row's selection, wrapping through unmapped.
func (m *Model) cycle(step int) {
	r := &m.rows[m.cursor]
	n := len(r.headers) + 1
	r.index = ((r.index+step)%n + n) % n
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Column Mapping"))
	b.WriteString("\n\n")

	lastSide := ""
	for i, r := range m.rows {
		side := "Lead file"
		if strings.HasPrefix(string(r.role), "delivery_") {
			side = "Delivery file"
		}
		if side != lastSide {
			if lastSide != "" {
				b.WriteString("\n")
			}
			b.WriteString(sectionStyle.Render(side))
			b.WriteString("\n")
			lastSide = side
		}

		cursor := "  "
		label := roleLabel(r.role)
		if i == m.cursor {
			cursor = "> "
			label = selectedStyle.Render(label)
		}

		value := unmappedStyle.Render(domain.NotAvailable)
		if r.index > 0 {
			value = valueStyle.Render(r.headers[r.index-1])
		}

		b.WriteString(fmt.Sprintf("%s%-18s %s\n", cursor, label, value))
	}

	b.WriteString("\n")
	if m.filtering {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render("[j/k] Role  [h/l] Column  [x] Unmap  [/] Filter  [enter] Save  [q] Cancel"))

	return b.String()
}

// Saved reports whether the user saved the mapping rather than
// cancelling.
func (m *Model) Saved() bool {
	return m.saved
}

// Mapping returns the assignments as a FieldMapping. Unmapped roles are
// absent.
func (m *Model) Mapping() domain.FieldMapping {
	mapping := make(domain.FieldMapping)
	for _, r := range m.rows {
		if r.index > 0 {
			mapping[r.role] = r.headers[r.index-1]
		}
	}
	return mapping
}

// roleLabel renders a role name for display.
func roleLabel(role domain.Role) string {
	name := strings.TrimPrefix(string(role), "lead_")
	name = strings.TrimPrefix(name, "delivery_")
	switch name {
	case "tal":
		return "TAL Company"
	case "linkedin":
		return "LinkedIn URL"
	case "first":
		return "First Name"
	case "last":
		return "Last Name"
	default:
		if name == "" {
			return name
		}
		return strings.ToUpper(name[:1]) + name[1:]
	}
}
