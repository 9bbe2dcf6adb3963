package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/cardspend/internal/datekey"
	"github.com/Veraticus/cardspend/internal/edit"
	"github.com/Veraticus/cardspend/internal/grouping"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/shopspring/decimal"
)

// Printer writes tables for the list, summary, and filters commands.
type Printer struct {
	w       io.Writer
	ShowIDs bool
}

// NewPrinter returns a printer writing to w, or to color.Output when w is nil.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = color.Output
	}
	return &Printer{w: w}
}

// FormatMoney renders an amount with a dollar sign and two decimals.
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// FormatSigned renders a row amount from the cardholder's side: expenses
// as -$x.xx and deposits as +$x.xx.
func FormatSigned(d decimal.Decimal) string {
	if d.IsNegative() {
		return "+$" + d.Abs().StringFixed(2)
	}
	return "-$" + d.StringFixed(2)
}

// Transactions prints the grouped view, newest group first.
func (p *Printer) Transactions(view grouping.Result) error {
	faint := color.New(color.Faint, color.Italic)
	switch {
	case view.NoData():
		_, err := faint.Fprintln(p.w, "No transactions yet.")
		return err
	case view.NoMatches():
		_, err := faint.Fprintln(p.w, "No transactions match the current filters.")
		return err
	}

	title := color.New(color.Bold, color.Underline)
	sub := color.New(color.Faint)
	id := color.New(color.FgHiYellow, color.Faint)
	received := color.New(color.FgGreen)

	for _, g := range view.Groups {
		if _, err := title.Fprint(p.w, g.Label); err != nil {
			return err
		}
		if _, err := sub.Fprintf(p.w, "  spent %s  received %s\n", FormatMoney(g.Spent), FormatMoney(g.Received)); err != nil {
			return err
		}

		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = 40
		for _, tx := range g.Transactions {
			amount := FormatSigned(tx.Amount)
			if tx.IsDeposit() {
				amount = received.Sprint(amount)
			}
			row := []any{tx.Label(), tx.Card, tx.Who, tx.Category, amount, cashbackText(tx), paidMark(tx.Paid)}
			if p.ShowIDs {
				row = append([]any{id.Sprint(tx.ID.String())}, row...)
			}
			tbl.AddRow(row...)
		}
		amountCol := 4
		if p.ShowIDs {
			amountCol++
		}
		tbl.RightAlign(amountCol)

		if _, err := fmt.Fprintln(p.w, tbl); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(p.w); err != nil {
			return err
		}
	}

	_, err := sub.Fprintf(p.w, "%d of %d transactions\n", view.Matched, view.Total)
	return err
}

// Transaction prints a single record.
func (p *Printer) Transaction(tx model.Transaction) error {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), tx.ID.String())
	tbl.AddRow(bold.Sprint("Date"), datekey.Format(datekey.Normalize(tx.Date)))
	tbl.AddRow(bold.Sprint("Card"), tx.Card)
	tbl.AddRow(bold.Sprint("Who"), tx.Who)
	tbl.AddRow(bold.Sprint("Category"), tx.Category)
	tbl.AddRow(bold.Sprint("Merchant"), tx.Merchant)
	tbl.AddRow(bold.Sprint("Amount"), FormatSigned(tx.Amount))
	tbl.AddRow(bold.Sprint("Cashback"), cashbackText(tx))
	tbl.AddRow(bold.Sprint("Paid"), paidMark(tx.Paid))
	if tx.Notes != "" {
		tbl.AddRow(bold.Sprint("Notes"), tx.Notes)
	}

	_, err := fmt.Fprintln(p.w, tbl)
	return err
}

// Summary prints per-card totals with a row for each person.
func (p *Printer) Summary(s model.SummaryByCard) error {
	if len(s) == 0 {
		_, err := color.New(color.Faint, color.Italic).Fprintln(p.w, "No summary available.")
		return err
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Card"), bold.Sprint("Who"), bold.Sprint("Total"), bold.Sprint("Paid"),
		bold.Sprint("Owes"), bold.Sprint("Cashback"), bold.Sprint("Pending"))

	for _, card := range s.Cards() {
		cs := s[card]
		tbl.AddRow(bold.Sprint(card), "", FormatMoney(cs.Total), FormatMoney(cs.Paid),
			FormatMoney(cs.Unpaid), FormatMoney(cs.CashbackEarned), FormatMoney(cs.CashbackPending))
		for _, who := range cs.People() {
			pt := cs.PerPerson[who]
			tbl.AddRow("", who, FormatMoney(pt.Total), FormatMoney(pt.Paid),
				FormatMoney(pt.Owes), FormatMoney(pt.CashbackEarned), FormatMoney(pt.CashbackPending))
		}
	}
	for col := 2; col <= 6; col++ {
		tbl.RightAlign(col)
	}

	_, err := fmt.Fprintln(p.w, tbl)
	return err
}

// Filters prints the persisted filter panel state and the values each
// criterion can take.
func (p *Printer) Filters(snap model.FilterSnapshot, opts model.FilterOptions) error {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	visible := "hidden"
	if snap.Visible {
		visible = "shown"
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	tbl.AddRow(bold.Sprint("Panel"), visible, "")
	tbl.AddRow(bold.Sprint("Who"), snap.Who, faint.Sprint(strings.Join(opts.Who, ", ")))
	tbl.AddRow(bold.Sprint("Card"), snap.Card, faint.Sprint(strings.Join(opts.Card, ", ")))
	tbl.AddRow(bold.Sprint("Category"), snap.Category, faint.Sprint(strings.Join(opts.Category, ", ")))
	tbl.AddRow(bold.Sprint("Merchant"), snap.Merchant, faint.Sprint(strings.Join(opts.Merchant, ", ")))
	tbl.AddRow(bold.Sprint("Paid"), string(snap.Paid), faint.Sprint("all, paid, unpaid"))
	tbl.AddRow(bold.Sprint("From"), orDash(snap.StartDate), "")
	tbl.AddRow(bold.Sprint("To"), orDash(snap.EndDate), "")

	_, err := fmt.Fprintln(p.w, tbl)
	return err
}

func cashbackText(tx model.Transaction) string {
	if !tx.HasCashbackRate() {
		return "-"
	}
	return edit.RatioToPercent(tx.CashbackRate) + "%"
}

func paidMark(paid bool) string {
	if paid {
		return SuccessIcon + " paid"
	}
	return "unpaid"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
