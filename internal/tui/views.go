package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/cardspend/internal/cli"
	"github.com/Veraticus/cardspend/internal/edit"
	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.screen {
	case screenHelp:
		body = m.renderHelp()
	case screenSummary:
		body = m.renderSummary()
	case screenAdd:
		body = m.renderAdd()
	default:
		body = m.renderTransactions()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderStatusBar(),
	)
}

// renderHeader renders the title line with counts and activity.
func (m Model) renderHeader() string {
	title := m.theme.Title.UnsetMarginBottom().Render(cli.CardIcon + " cardspend")

	var info string
	if m.store.Loaded() {
		view := m.list.Result()
		info = fmt.Sprintf("%d of %d transactions", view.Matched, view.Total)
		if !m.filters.Criteria().IsZero() {
			info += " (filtered)"
		}
	}
	if m.busy() {
		info = strings.TrimSpace(m.spinner.View() + " " + info)
	}

	gap := max(1, m.width-lipgloss.Width(title)-lipgloss.Width(info))
	return title + strings.Repeat(" ", gap) + m.theme.Subtitle.Render(info)
}

// renderTransactions renders the browse screen.
func (m Model) renderTransactions() string {
	if !m.store.Loaded() {
		if m.loadErr == "" {
			return m.spinner.View() + " Loading transactions..."
		}
		// A failed fetch leaves an empty store; the failure is in the status line.
		return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), m.theme.Subtitle.Render("Press r to retry."))
	}

	if m.filters.Visible() {
		return lipgloss.JoinVertical(lipgloss.Left, m.panel.View(), m.list.View())
	}
	return m.list.View()
}

// renderSummary renders the per-card summary screen.
func (m Model) renderSummary() string {
	parts := []string{
		m.theme.Bold.Render("Summary by card"),
		"",
		m.summary.View(),
	}
	if footer := m.summary.Footer(); footer != "" {
		parts = append(parts, footer)
	}
	parts = append(parts, m.theme.Subtitle.Render("r reload · s/Esc back"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderAdd renders the add screen.
func (m Model) renderAdd() string {
	parts := []string{m.addForm.View()}
	if m.creating {
		parts = append(parts, m.spinner.View()+" Saving...")
	} else {
		parts = append(parts, m.theme.Subtitle.Render("Enter save · Esc cancel · Tab next field"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHelp renders the full key reference.
func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Title.Render("Keyboard shortcuts"),
		h.View(m.keymap),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Press ? or Esc to close help"),
	)

	return lipgloss.Place(
		m.width,
		max(0, m.height-3),
		lipgloss.Center,
		lipgloss.Center,
		m.theme.BorderedBox.Render(content),
	)
}

// renderStatusBar renders the status message over the contextual key help.
func (m Model) renderStatusBar() string {
	var mode string
	switch {
	case m.screen == screenAdd:
		mode = "Add"
	case m.screen == screenSummary:
		mode = "Summary"
	case m.editing:
		mode = strings.ToUpper(m.editor.State().Phase.String()[:1]) + m.editor.State().Phase.String()[1:]
	case m.panel.Focused():
		mode = "Filters"
	default:
		mode = "Browse"
	}

	status := m.status
	switch m.statusLevel {
	case edit.Success:
		status = m.theme.StatusSuccess.Render(status)
	case edit.Failure:
		status = m.theme.StatusError.Render(status)
	default:
		status = m.theme.StatusInfo.Render(status)
	}

	line := m.theme.Badge.Render(mode) + " " + status

	var keys string
	if m.editing {
		keys = m.help.View(editingKeys{k: m.keymap})
	} else {
		keys = m.help.View(m.keymap)
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, keys)
}
