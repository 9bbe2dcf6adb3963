package sheets

import (
	"fmt"
	"time"

	"github.com/Veraticus/cardspend/internal/grouping"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/shopspring/decimal"
)

// Report is one export: the grouped view plus the filters that produced it.
type Report struct {
	Generated time.Time
	Summary   model.SummaryByCard
	Criteria  model.FilterCriteria
	View      grouping.Result
}

// Column headers of the transaction table.
var transactionHeader = []any{"Date", "Label", "Card", "Who", "Category", "Amount", "Cashback %", "Paid", "Notes"}

// BuildRows lays the report out as sheet rows. The first row is the title.
func BuildRows(r Report) [][]any {
	values := make([][]any, 0, 8+r.View.Matched+2*len(r.View.Groups)+len(r.Summary))

	values = append(values,
		[]any{"Card Spending", r.Generated.Format("Jan 2, 2006 15:04")},
		[]any{"Filters", describeCriteria(r.Criteria)},
		[]any{"Transactions", r.View.Matched, "of", r.View.Total},
		[]any{},
		transactionHeader,
	)

	for _, g := range r.View.Groups {
		values = append(values, []any{g.Label, "", "", "", "Spent", money(g.Spent), "Received", money(g.Received)})
		for _, tx := range g.Transactions {
			values = append(values, []any{
				g.Key,
				tx.Label(),
				tx.Card,
				tx.Who,
				tx.Category,
				money(tx.Amount),
				ratioPercent(tx.CashbackRate),
				paidText(tx.Paid),
				tx.Notes,
			})
		}
	}

	if len(r.Summary) == 0 {
		return values
	}

	values = append(values,
		[]any{},
		[]any{"Summary by Card"},
		[]any{"Card", "Who", "Total", "Paid", "Owes", "Cashback Earned", "Cashback Pending"},
	)
	for _, card := range r.Summary.Cards() {
		cs := r.Summary[card]
		values = append(values, []any{card, "", money(cs.Total), money(cs.Paid), money(cs.Unpaid), money(cs.CashbackEarned), money(cs.CashbackPending)})
		for _, who := range cs.People() {
			p := cs.PerPerson[who]
			values = append(values, []any{"", who, money(p.Total), money(p.Paid), money(p.Owes), money(p.CashbackEarned), money(p.CashbackPending)})
		}
	}

	return values
}

func describeCriteria(c model.FilterCriteria) string {
	if c.IsZero() {
		return "none"
	}
	desc := ""
	add := func(name, v string) {
		if model.IsAll(v) {
			return
		}
		if desc != "" {
			desc += ", "
		}
		desc += fmt.Sprintf("%s=%s", name, v)
	}
	add("who", c.Who)
	add("card", c.Card)
	add("category", c.Category)
	add("merchant", c.Merchant)
	add("paid", string(c.Paid))
	if c.StartDate != "" {
		add("from", c.StartDate)
	}
	if c.EndDate != "" {
		add("to", c.EndDate)
	}
	return desc
}

// money returns a float for the sheet; cell formatting handles the rest.
func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func ratioPercent(rate decimal.NullDecimal) any {
	if !rate.Valid {
		return ""
	}
	f, _ := rate.Decimal.Mul(decimal.NewFromInt(100)).Float64()
	return f
}

func paidText(paid bool) string {
	if paid {
		return "paid"
	}
	return "unpaid"
}
