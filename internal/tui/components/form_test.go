package components

import (
	"testing"

	"github.com/Veraticus/cardspend/internal/edit"
	"github.com/Veraticus/cardspend/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestForm_RoundTripsDraft(t *testing.T) {
	d := edit.DraftForm{
		Date:            "2024-03-01",
		Card:            "Amex",
		Who:             "mom",
		Category:        "Food",
		Merchant:        "Grocer",
		Notes:           "weekly",
		Amount:          "40",
		CashbackPercent: "3",
		Paid:            true,
	}
	f := NewForm(themes.Default, "Edit", d, []string{"me", "mom", "dad"}, FormSuggestions{})
	assert.Equal(t, d, f.Draft())
	assert.Equal(t, "Date", f.FocusedLabel())
}

func TestForm_Navigation(t *testing.T) {
	f := NewForm(themes.Default, "", edit.DraftForm{}, nil, FormSuggestions{})

	f, _ = f.Update(key(tea.KeyTab))
	assert.Equal(t, "Card", f.FocusedLabel())
	f, _ = f.Update(key(tea.KeyShiftTab))
	f, _ = f.Update(key(tea.KeyShiftTab))
	assert.Equal(t, "Paid", f.FocusedLabel())
}

func TestForm_TypingEditsFocusedField(t *testing.T) {
	f := NewForm(themes.Default, "", edit.DraftForm{Amount: ""}, nil, FormSuggestions{})
	for f.FocusedLabel() != "Amount" {
		f, _ = f.Update(key(tea.KeyTab))
	}
	f, _ = f.Update(runes("12.50"))
	assert.Equal(t, "12.50", f.Draft().Amount)
	assert.Empty(t, f.Draft().Merchant)
}

func TestForm_WhoAndPaidSelectors(t *testing.T) {
	f := NewForm(themes.Default, "", edit.DraftForm{Who: "me"}, []string{"me", "mom", "dad"}, FormSuggestions{})
	for f.FocusedLabel() != "Who" {
		f, _ = f.Update(key(tea.KeyTab))
	}

	f, _ = f.Update(key(tea.KeyRight))
	assert.Equal(t, "mom", f.Draft().Who)
	f, _ = f.Update(key(tea.KeyLeft))
	f, _ = f.Update(key(tea.KeyLeft))
	assert.Equal(t, "dad", f.Draft().Who)

	// Letters typed on a selector do not leak into text fields.
	f, _ = f.Update(runes("z"))
	assert.Empty(t, f.Draft().Category)

	for f.FocusedLabel() != "Paid" {
		f, _ = f.Update(key(tea.KeyTab))
	}
	f, _ = f.Update(runes("x"))
	assert.True(t, f.Draft().Paid)
	f, _ = f.Update(runes("x"))
	assert.False(t, f.Draft().Paid)
}

func TestForm_EmptyRosterKeepsWho(t *testing.T) {
	f := NewForm(themes.Default, "", edit.DraftForm{Who: "aunt"}, nil, FormSuggestions{})
	for f.FocusedLabel() != "Who" {
		f, _ = f.Update(key(tea.KeyTab))
	}
	f, _ = f.Update(key(tea.KeyRight))
	assert.Equal(t, "aunt", f.Draft().Who)
}

func TestForm_View(t *testing.T) {
	f := NewForm(themes.Default, "Add transaction", edit.DraftForm{Card: "Amex"}, []string{"me"}, FormSuggestions{})
	out := f.View()
	assert.Contains(t, out, "Add transaction")
	assert.Contains(t, out, "Cashback %")
	assert.Contains(t, out, "[ ] unpaid")
	assert.Contains(t, out, "(nobody)")
}
