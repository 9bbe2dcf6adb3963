package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/cardspend/internal/cli"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/tui/themes"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// SummaryPanelModel displays the per-card totals reported by the service.
type SummaryPanelModel struct {
	theme   themes.Theme
	summary model.SummaryByCard
	bar     progress.Model
	err     string
	width   int
	height  int
	loaded  bool
}

// NewSummaryPanel creates an empty summary panel.
func NewSummaryPanel(theme themes.Theme) SummaryPanelModel {
	bar := progress.New(
		progress.WithSolidFill(string(theme.Success)),
		progress.WithoutPercentage(),
		progress.WithWidth(30),
	)
	return SummaryPanelModel{
		theme: theme,
		bar:   bar,
		width: 80,
	}
}

// SetSummary replaces the displayed totals.
func (m *SummaryPanelModel) SetSummary(s model.SummaryByCard) {
	m.summary = s
	m.err = ""
	m.loaded = true
}

// SetError shows a load failure instead of totals.
func (m *SummaryPanelModel) SetError(msg string) {
	m.err = msg
	m.loaded = true
}

// Loaded reports whether a summary or an error has arrived.
func (m SummaryPanelModel) Loaded() bool {
	return m.loaded
}

// Resize updates the component size.
func (m *SummaryPanelModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = max(10, min(width-30, 40))
}

// View renders one section per card.
func (m SummaryPanelModel) View() string {
	switch {
	case m.err != "":
		return m.theme.StatusError.Render(m.err)
	case !m.loaded:
		return m.theme.Italic.Render("Loading summary...")
	case len(m.summary) == 0:
		return m.theme.Italic.Render("No card activity to summarize.")
	}

	sections := make([]string, 0, len(m.summary))
	for _, card := range m.summary.Cards() {
		sections = append(sections, m.renderCard(card, m.summary[card]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SummaryPanelModel) renderCard(card string, s model.CardSummary) string {
	title := m.theme.GroupHeader.Render(card)

	totals := fmt.Sprintf("total %s   paid %s   unpaid %s",
		cli.FormatMoney(s.Total), cli.FormatMoney(s.Paid), cli.FormatMoney(s.Unpaid))
	if !s.CashbackEarned.IsZero() || !s.CashbackPending.IsZero() {
		totals += fmt.Sprintf("   cashback %s (+%s pending)",
			cli.FormatMoney(s.CashbackEarned), cli.FormatMoney(s.CashbackPending))
	}

	paidLine := m.bar.ViewAs(paidFraction(s)) + " " + m.theme.Subtitle.Render(
		fmt.Sprintf("%.0f%% paid", paidFraction(s)*100))

	lines := []string{title, m.theme.Normal.Render(totals), paidLine}
	if len(s.PerPerson) > 0 {
		lines = append(lines, m.personTable(s).View())
	}
	return lipgloss.NewStyle().MarginBottom(1).Render(strings.Join(lines, "\n"))
}

func (m SummaryPanelModel) personTable(s model.CardSummary) table.Model {
	columns := []table.Column{
		{Title: "Who", Width: 12},
		{Title: "Total", Width: 12},
		{Title: "Paid", Width: 12},
		{Title: "Owes", Width: 12},
		{Title: "Cashback", Width: 12},
	}

	people := s.People()
	rows := make([]table.Row, 0, len(people))
	for _, name := range people {
		p := s.PerPerson[name]
		rows = append(rows, table.Row{
			name,
			cli.FormatMoney(p.Total),
			cli.FormatMoney(p.Paid),
			cli.FormatMoney(p.Owes),
			cli.FormatMoney(p.CashbackEarned),
		})
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(m.theme.Primary)
	styles.Selected = styles.Cell

	return table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
		table.WithFocused(false),
		table.WithStyles(styles),
	)
}

func paidFraction(s model.CardSummary) float64 {
	if !s.Total.IsPositive() {
		return 0
	}
	f, _ := s.Paid.Div(s.Total).Float64()
	return min(1, max(0, f))
}

// summaryTotal sums every card for the footer line of the summary screen.
func summaryTotal(s model.SummaryByCard) (total, unpaid decimal.Decimal) {
	for _, c := range s {
		total = total.Add(c.Total)
		unpaid = unpaid.Add(c.Unpaid)
	}
	return total, unpaid
}

// Footer renders the combined totals across cards.
func (m SummaryPanelModel) Footer() string {
	if len(m.summary) == 0 {
		return ""
	}
	total, unpaid := summaryTotal(m.summary)
	return m.theme.Bold.Render(fmt.Sprintf("All cards: %s spent, %s unpaid",
		cli.FormatMoney(total), cli.FormatMoney(unpaid)))
}
