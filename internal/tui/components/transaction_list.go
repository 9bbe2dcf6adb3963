package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/cardspend/internal/cli"
	"github.com/Veraticus/cardspend/internal/grouping"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// TransactionListModel renders the grouped view with a cursor over rows.
// An inline block (the editor) can be attached below one row.
type TransactionListModel struct {
	theme    themes.Theme
	view     grouping.Result
	rows     []model.Transaction
	inlineID model.ID
	inline   string
	cursor   int
	offset   int
	width    int
	height   int
}

// NewTransactionList creates an empty list.
func NewTransactionList(theme themes.Theme) TransactionListModel {
	return TransactionListModel{
		theme:  theme,
		width:  80,
		height: 20,
	}
}

// SetView replaces the rows, keeping the cursor on the same transaction
// when it is still present.
func (m *TransactionListModel) SetView(view grouping.Result) {
	current, hadCurrent := m.Selected()

	m.view = view
	m.rows = view.Transactions()

	if hadCurrent && m.focus(current.ID) {
		return
	}
	m.cursor = clamp(m.cursor, 0, len(m.rows)-1)
	m.layout()
}

// Result returns the derived view currently displayed.
func (m TransactionListModel) Result() grouping.Result {
	return m.view
}

// Selected returns the transaction under the cursor.
func (m TransactionListModel) Selected() (model.Transaction, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return model.Transaction{}, false
	}
	return m.rows[m.cursor], true
}

// Cursor returns the index of the selected row.
func (m TransactionListModel) Cursor() int {
	return m.cursor
}

// FocusID moves the cursor to id. It reports false when id is not shown.
func (m *TransactionListModel) FocusID(id model.ID) bool {
	return m.focus(id)
}

func (m *TransactionListModel) focus(id model.ID) bool {
	for i, tx := range m.rows {
		if tx.ID == id {
			m.cursor = i
			m.layout()
			return true
		}
	}
	return false
}

// SetInline attaches content below the row with id. An empty id detaches it.
func (m *TransactionListModel) SetInline(id model.ID, content string) {
	m.inlineID = id
	m.inline = content
	m.layout()
}

// MoveBy moves the cursor by delta rows.
func (m *TransactionListModel) MoveBy(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, len(m.rows)-1)
	m.layout()
}

// Page moves the cursor by a screenful in direction (+1 or -1).
func (m *TransactionListModel) Page(direction int) {
	m.MoveBy(direction * max(1, m.height/3))
}

// Top moves to the newest transaction.
func (m *TransactionListModel) Top() {
	m.cursor = 0
	m.layout()
}

// Bottom moves to the oldest transaction.
func (m *TransactionListModel) Bottom() {
	m.cursor = max(0, len(m.rows)-1)
	m.layout()
}

// Resize updates the component size.
func (m *TransactionListModel) Resize(width, height int) {
	m.width = width
	m.height = max(1, height)
	m.layout()
}

// layout scrolls so the cursor row, and its inline block, are visible.
func (m *TransactionListModel) layout() {
	lines, start, end := m.render()
	if start < 0 {
		m.offset = 0
		return
	}
	if start < m.offset {
		m.offset = start
	}
	if end >= m.offset+m.height {
		m.offset = end - m.height + 1
	}
	// Inline blocks taller than the screen keep their row visible.
	if m.offset > start {
		m.offset = start
	}
	m.offset = clamp(m.offset, 0, max(0, len(lines)-1))
}

// View renders the visible window of the list.
func (m TransactionListModel) View() string {
	switch {
	case m.view.NoData():
		return m.theme.Italic.Render("No transactions yet. Press a to add one.")
	case m.view.NoMatches():
		return m.theme.Italic.Render("No transactions match the current filters.")
	}

	lines, _, _ := m.render()
	from := clamp(m.offset, 0, len(lines))
	to := min(len(lines), from+m.height)
	return strings.Join(lines[from:to], "\n")
}

// render lays out every line and returns the line span of the cursor row.
func (m TransactionListModel) render() (lines []string, cursorStart, cursorEnd int) {
	cursorStart, cursorEnd = -1, -1
	index := 0

	for gi, g := range m.view.Groups {
		if gi > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, m.renderGroupHeader(g))

		for _, tx := range g.Transactions {
			selected := index == m.cursor
			if selected {
				cursorStart = len(lines)
			}
			lines = append(lines, m.renderRow(tx, selected))
			if strings.TrimSpace(tx.Notes) != "" {
				lines = append(lines, "    "+m.theme.Italic.Render(truncate(tx.Notes, max(10, m.width-6))))
			}
			if m.inline != "" && tx.ID == m.inlineID {
				lines = append(lines, strings.Split(m.inline, "\n")...)
			}
			if selected {
				cursorEnd = len(lines) - 1
			}
			index++
		}
	}
	return lines, cursorStart, cursorEnd
}

func (m TransactionListModel) renderGroupHeader(g grouping.Group) string {
	totals := fmt.Sprintf("  spent %s", cli.FormatMoney(g.Spent))
	if g.Received.IsPositive() {
		totals += fmt.Sprintf("  received %s", cli.FormatMoney(g.Received))
	}
	return m.theme.GroupHeader.Render(g.Label) + m.theme.Subtitle.Render(totals)
}

func (m TransactionListModel) renderRow(tx model.Transaction, selected bool) string {
	amount := cli.FormatSigned(tx.Amount)
	if tx.IsDeposit() {
		amount = m.theme.Deposit.Render(amount)
	} else {
		amount = m.theme.Expense.Render(amount)
	}

	paid := m.theme.UnpaidBadge.Render("unpaid")
	if tx.Paid {
		paid = m.theme.PaidBadge.Render("paid")
	}

	var badges []string
	if tx.Category != "" {
		badges = append(badges, m.theme.Badge.Render(tx.Category))
	}
	badges = append(badges, paid)

	who := ""
	if tx.Who != "" {
		who = m.theme.Subtitle.Render("by " + tx.Who)
	}

	marker := "  "
	label := truncate(tx.Label(), 32)
	if selected {
		marker = "▸ "
		label = m.theme.Selected.Render(label)
	} else {
		label = m.theme.Bold.Render(label)
	}

	left := lipgloss.JoinHorizontal(lipgloss.Top, marker, label, " ", strings.Join(badges, ""), " ", who)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(amount)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + amount
}

func clamp(v, low, high int) int {
	if high < low {
		return low
	}
	return min(max(v, low), high)
}

func truncate(s string, maxLen int) string {
	return ansi.Truncate(s, maxLen, "...")
}
