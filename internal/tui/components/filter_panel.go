package components

import (
	"strings"

	"github.com/Veraticus/cardspend/internal/filter"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FilterPanelModel shows the active criteria and lets the user change them.
// It never owns the criteria: changes are emitted as FilterChangedMsg and
// the owner feeds the result back through SetCriteria.
type FilterPanelModel struct {
	theme    themes.Theme
	options  model.FilterOptions
	criteria model.FilterCriteria
	start    textinput.Model
	end      textinput.Model
	focus    FilterField
	focused  bool
	width    int
}

// NewFilterPanel creates a panel showing no constraint.
func NewFilterPanel(theme themes.Theme) FilterPanelModel {
	newDate := func() textinput.Model {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = "YYYY-MM-DD"
		ti.CharLimit = 10
		ti.Width = 12
		return ti
	}
	return FilterPanelModel{
		theme:    theme,
		criteria: model.NoFilter(),
		start:    newDate(),
		end:      newDate(),
		width:    80,
	}
}

// SetOptions replaces the values offered by the selectors.
func (m *FilterPanelModel) SetOptions(opts model.FilterOptions) {
	m.options = opts
}

// SetCriteria shows c. Date inputs being typed into keep their text.
func (m *FilterPanelModel) SetCriteria(c model.FilterCriteria) {
	m.criteria = c.Normalized()
	if !m.start.Focused() {
		m.start.SetValue(c.StartDate)
	}
	if !m.end.Focused() {
		m.end.SetValue(c.EndDate)
	}
}

// Focus gives the panel keyboard focus.
func (m *FilterPanelModel) Focus() tea.Cmd {
	m.focused = true
	return m.focusField()
}

// Blur removes keyboard focus.
func (m *FilterPanelModel) Blur() {
	m.focused = false
	m.start.Blur()
	m.end.Blur()
}

// Focused reports whether the panel has keyboard focus.
func (m FilterPanelModel) Focused() bool {
	return m.focused
}

// FocusedField returns the control under the cursor.
func (m FilterPanelModel) FocusedField() FilterField {
	return m.focus
}

// Editing reports whether a date input is capturing keystrokes.
func (m FilterPanelModel) Editing() bool {
	return m.focused && (m.focus == FieldStartDate || m.focus == FieldEndDate)
}

// Resize sets the available width.
func (m *FilterPanelModel) Resize(width int) {
	m.width = width
}

func (m *FilterPanelModel) focusField() tea.Cmd {
	m.start.Blur()
	m.end.Blur()
	switch m.focus {
	case FieldStartDate:
		return m.start.Focus()
	case FieldEndDate:
		return m.end.Focus()
	}
	return nil
}

// Update handles keys while the panel is focused.
func (m FilterPanelModel) Update(msg tea.Msg) (FilterPanelModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % filterFieldCount
		return m, m.focusField()
	case "shift+tab", "up":
		m.focus = (m.focus + filterFieldCount - 1) % filterFieldCount
		return m, m.focusField()
	case "ctrl+r":
		return m, emit(FilterResetMsg{})
	}

	switch m.focus {
	case FieldStartDate, FieldEndDate:
		return m.updateDate(keyMsg)
	case FieldPaid:
		switch keyMsg.String() {
		case "left", "h", "right", "l", " ", "enter":
			next := m.criteria.Paid.Next()
			return m, emit(FilterChangedMsg{Field: FieldPaid, Value: string(next)})
		}
		return m, nil
	}

	step := 0
	switch keyMsg.String() {
	case "left", "h":
		step = -1
	case "right", "l", " ", "enter":
		step = 1
	}
	if step == 0 {
		return m, nil
	}
	opts, current := m.selector(m.focus)
	return m, emit(FilterChangedMsg{Field: m.focus, Value: filter.Cycle(opts, current, step)})
}

func (m FilterPanelModel) updateDate(keyMsg tea.KeyMsg) (FilterPanelModel, tea.Cmd) {
	input := &m.start
	if m.focus == FieldEndDate {
		input = &m.end
	}

	switch keyMsg.String() {
	case "enter":
		return m, emit(FilterChangedMsg{Field: m.focus, Value: strings.TrimSpace(input.Value())})
	case "ctrl+u":
		input.SetValue("")
		return m, emit(FilterChangedMsg{Field: m.focus, Value: ""})
	}

	var cmd tea.Cmd
	*input, cmd = input.Update(keyMsg)
	return m, cmd
}

func (m FilterPanelModel) selector(field FilterField) (options []string, current string) {
	switch field {
	case FieldWho:
		return m.options.Who, m.criteria.Who
	case FieldCard:
		return m.options.Card, m.criteria.Card
	case FieldCategory:
		return m.options.Category, m.criteria.Category
	case FieldMerchant:
		return m.options.Merchant, m.criteria.Merchant
	}
	return nil, ""
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// View renders the panel on one or two lines.
func (m FilterPanelModel) View() string {
	cells := make([]string, 0, filterFieldCount)
	for f := FieldWho; f < filterFieldCount; f++ {
		cells = append(cells, m.renderCell(f))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(cells, "  "))
	if lipgloss.Width(row) > m.width && m.width > 0 {
		mid := int(FieldPaid)
		row = strings.Join(cells[:mid], "  ") + "\n" + strings.Join(cells[mid:], "  ")
	}

	style := m.theme.RoundedBox
	if m.focused {
		style = style.BorderForeground(m.theme.Primary)
	}
	return style.Render(row)
}

func (m FilterPanelModel) renderCell(f FilterField) string {
	label := f.String() + ": "
	var value string
	switch f {
	case FieldPaid:
		value = string(m.criteria.Paid)
	case FieldStartDate:
		value = m.start.View()
	case FieldEndDate:
		value = m.end.View()
	default:
		_, value = m.selector(f)
	}

	active := m.focused && f == m.focus
	switch {
	case active && (f == FieldStartDate || f == FieldEndDate):
		return m.theme.Bold.Render(label) + value
	case active:
		return m.theme.Bold.Render(label) + m.theme.Selected.Render("‹ "+value+" ›")
	case f != FieldStartDate && f != FieldEndDate && !model.IsAll(value) && value != string(model.PaidAll):
		return m.theme.Subtitle.Render(label) + m.theme.Highlighted.Render(value)
	default:
		return m.theme.Subtitle.Render(label) + value
	}
}
