package components

import (
	"strings"
	"testing"

	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/tui/themes"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSummaryPanel_States(t *testing.T) {
	m := NewSummaryPanel(themes.Default)
	assert.False(t, m.Loaded())
	assert.Contains(t, m.View(), "Loading summary")

	m.SetSummary(model.SummaryByCard{})
	assert.True(t, m.Loaded())
	assert.Contains(t, m.View(), "No card activity")
	assert.Empty(t, m.Footer())

	m.SetError("Network error while trying to load summary.")
	assert.Contains(t, m.View(), "Network error")
}

func TestSummaryPanel_RendersCards(t *testing.T) {
	d := decimal.RequireFromString
	m := NewSummaryPanel(themes.Default)
	m.Resize(120, 40)
	m.SetSummary(model.SummaryByCard{
		"Visa": {Total: d("10"), Paid: d("10"), Unpaid: d("0")},
		"Amex": {
			Total: d("100"), Paid: d("25"), Unpaid: d("75"),
			CashbackEarned: d("1.5"), CashbackPending: d("0.5"),
			PerPerson: map[string]model.PersonTotals{
				"mom": {Total: d("60"), Paid: d("0"), Owes: d("60")},
				"me":  {Total: d("40"), Paid: d("25"), Owes: d("15"), CashbackEarned: d("1.5")},
			},
		},
	})

	out := m.View()
	assert.Less(t, strings.Index(out, "Amex"), strings.Index(out, "Visa"))
	assert.Contains(t, out, "total $100.00")
	assert.Contains(t, out, "unpaid $75.00")
	assert.Contains(t, out, "cashback $1.50 (+$0.50 pending)")
	assert.Contains(t, out, "25% paid")
	assert.Contains(t, out, "100% paid")
	assert.Contains(t, out, "$60.00")
	assert.Contains(t, out, "Owes")
	assert.Contains(t, m.Footer(), "All cards: $110.00 spent, $75.00 unpaid")
}

func TestPaidFraction(t *testing.T) {
	d := decimal.RequireFromString
	assert.InDelta(t, 0.0, paidFraction(model.CardSummary{Total: d("0"), Paid: d("5")}), 0.001)
	assert.InDelta(t, 0.5, paidFraction(model.CardSummary{Total: d("10"), Paid: d("5")}), 0.001)
	assert.InDelta(t, 1.0, paidFraction(model.CardSummary{Total: d("10"), Paid: d("50")}), 0.001)
}
