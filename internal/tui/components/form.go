package components

import (
	"strings"

	"github.com/Veraticus/cardspend/internal/edit"
	"github.com/Veraticus/cardspend/internal/filter"
	"github.com/Veraticus/cardspend/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Form fields in focus order. Who and Paid are selectors, the rest are
// text inputs.
const (
	formDate = iota
	formCard
	formWho
	formCategory
	formMerchant
	formAmount
	formCashback
	formNotes
	formPaid
	formFieldCount
)

var formLabels = [formFieldCount]string{
	formDate:     "Date",
	formCard:     "Card",
	formWho:      "Who",
	formCategory: "Category",
	formMerchant: "Merchant",
	formAmount:   "Amount",
	formCashback: "Cashback %",
	formNotes:    "Notes",
	formPaid:     "Paid",
}

// FormSuggestions are completions offered while typing.
type FormSuggestions struct {
	Cards      []string
	Categories []string
	Merchants  []string
}

// FormModel edits a DraftForm. It is used both inline, under the row being
// edited, and as the Add screen.
type FormModel struct {
	theme  themes.Theme
	title  string
	roster []string
	inputs [formFieldCount]textinput.Model
	who    string
	paid   bool
	focus  int
	width  int
}

// NewForm creates a form holding d. roster lists the names Who cycles
// through.
func NewForm(theme themes.Theme, title string, d edit.DraftForm, roster []string, sugg FormSuggestions) FormModel {
	f := FormModel{
		theme:  theme,
		title:  title,
		roster: roster,
		who:    d.Who,
		paid:   d.Paid,
		width:  80,
	}

	values := [formFieldCount]string{
		formDate:     d.Date,
		formCard:     d.Card,
		formCategory: d.Category,
		formMerchant: d.Merchant,
		formAmount:   d.Amount,
		formCashback: d.CashbackPercent,
		formNotes:    d.Notes,
	}
	placeholders := [formFieldCount]string{
		formDate:     "YYYY-MM-DD",
		formCard:     "card name",
		formAmount:   "0.00",
		formCashback: "3 or 0.03",
	}

	for i := range f.inputs {
		if i == formWho || i == formPaid {
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		ti.Width = 40
		ti.SetValue(values[i])
		f.inputs[i] = ti
	}
	f.setSuggestions(formCard, sugg.Cards)
	f.setSuggestions(formCategory, sugg.Categories)
	f.setSuggestions(formMerchant, sugg.Merchants)

	f.inputs[formDate].Focus()
	return f
}

func (f *FormModel) setSuggestions(field int, values []string) {
	if len(values) == 0 {
		return
	}
	f.inputs[field].ShowSuggestions = true
	f.inputs[field].SetSuggestions(values)
}

// Draft returns the form contents.
func (f FormModel) Draft() edit.DraftForm {
	return edit.DraftForm{
		Date:            strings.TrimSpace(f.inputs[formDate].Value()),
		Card:            strings.TrimSpace(f.inputs[formCard].Value()),
		Who:             f.who,
		Category:        strings.TrimSpace(f.inputs[formCategory].Value()),
		Merchant:        strings.TrimSpace(f.inputs[formMerchant].Value()),
		Notes:           f.inputs[formNotes].Value(),
		Amount:          strings.TrimSpace(f.inputs[formAmount].Value()),
		CashbackPercent: strings.TrimSpace(f.inputs[formCashback].Value()),
		Paid:            f.paid,
	}
}

// FocusedLabel names the focused field.
func (f FormModel) FocusedLabel() string {
	return formLabels[f.focus]
}

// Resize sets the available width.
func (f *FormModel) Resize(width int) {
	f.width = width
	for i := range f.inputs {
		f.inputs[i].Width = max(10, min(60, width-20))
	}
}

// Update handles navigation and typing. Submit and cancel keys belong to
// the owner of the form.
func (f FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, f.updateFocused(msg)
	}

	switch keyMsg.String() {
	case "tab":
		if f.canComplete() {
			return f, f.updateFocused(msg)
		}
		return f, f.moveFocus(1)
	case "down":
		return f, f.moveFocus(1)
	case "shift+tab", "up":
		return f, f.moveFocus(-1)
	}

	switch f.focus {
	case formWho:
		if len(f.roster) == 0 {
			return f, nil
		}
		switch keyMsg.String() {
		case "left", "h":
			f.who = filter.Cycle(f.roster, f.who, -1)
		case "right", "l", " ":
			f.who = filter.Cycle(f.roster, f.who, 1)
		}
		return f, nil
	case formPaid:
		switch keyMsg.String() {
		case " ", "left", "right", "h", "l", "x":
			f.paid = !f.paid
		}
		return f, nil
	}

	return f, f.updateFocused(msg)
}

// canComplete reports whether tab should accept a suggestion rather than
// move focus.
func (f *FormModel) canComplete() bool {
	if f.focus == formWho || f.focus == formPaid {
		return false
	}
	in := &f.inputs[f.focus]
	s := in.CurrentSuggestion()
	return s != "" && s != in.Value()
}

func (f *FormModel) updateFocused(msg tea.Msg) tea.Cmd {
	if f.focus == formWho || f.focus == formPaid {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *FormModel) moveFocus(step int) tea.Cmd {
	if f.focus != formWho && f.focus != formPaid {
		f.inputs[f.focus].Blur()
	}
	f.focus = ((f.focus+step)%formFieldCount + formFieldCount) % formFieldCount
	if f.focus == formWho || f.focus == formPaid {
		return nil
	}
	return f.inputs[f.focus].Focus()
}

// View renders the form.
func (f FormModel) View() string {
	labelStyle := lipgloss.NewStyle().Width(12).Foreground(f.theme.Muted)
	focusedLabel := labelStyle.Foreground(f.theme.Primary).Bold(true)

	lines := make([]string, 0, formFieldCount+2)
	if f.title != "" {
		lines = append(lines, f.theme.Bold.Render(f.title))
	}

	for i := 0; i < formFieldCount; i++ {
		label := labelStyle.Render(formLabels[i])
		if i == f.focus {
			label = focusedLabel.Render(formLabels[i])
		}

		var value string
		switch i {
		case formWho:
			value = f.renderWho(i == f.focus)
		case formPaid:
			value = f.renderPaid(i == f.focus)
		default:
			value = f.inputs[i].View()
		}
		lines = append(lines, label+value)
	}

	return f.theme.BorderedBox.Render(strings.Join(lines, "\n"))
}

func (f FormModel) renderWho(focused bool) string {
	who := f.who
	if who == "" {
		who = "(nobody)"
	}
	if focused {
		return f.theme.Selected.Render("‹ "+who+" ›") + " " + f.theme.Subtitle.Render(strings.Join(f.roster, " · "))
	}
	return who
}

func (f FormModel) renderPaid(focused bool) string {
	box := "[ ] unpaid"
	if f.paid {
		box = "[x] paid"
	}
	if focused {
		return f.theme.Selected.Render(box)
	}
	return box
}
