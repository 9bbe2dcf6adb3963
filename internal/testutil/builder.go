package testutil

import (
	"fmt"

	"github.com/Veraticus/cardspend/internal/model"
	"github.com/shopspring/decimal"
)

// Builder provides a fluent interface for constructing test transactions.
//
//	txs := testutil.NewBuilder().
//		Add("2024-03-01", "Amex", "me", "Grocer", "40").
//		Add("2024-03-02", "Amex", "mom", "Refund", "-10").Paid().
//		Build()
type Builder struct {
	txs []model.Transaction
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a transaction with a sequential id. amount must be a decimal
// string; a malformed amount panics.
func (b *Builder) Add(date, card, who, merchant, amount string) *Builder {
	b.txs = append(b.txs, model.Transaction{
		ID:       model.ID(fmt.Sprint(len(b.txs) + 1)),
		Date:     date,
		Card:     card,
		Who:      who,
		Merchant: merchant,
		Amount:   decimal.RequireFromString(amount),
	})
	return b
}

// Paid marks the last added transaction as paid.
func (b *Builder) Paid() *Builder {
	b.last().Paid = true
	return b
}

// Category sets the category of the last added transaction.
func (b *Builder) Category(category string) *Builder {
	b.last().Category = category
	return b
}

// Notes sets the notes of the last added transaction.
func (b *Builder) Notes(notes string) *Builder {
	b.last().Notes = notes
	return b
}

// Cashback sets the cashback ratio of the last added transaction.
func (b *Builder) Cashback(ratio string) *Builder {
	b.last().CashbackRate = decimal.NewNullDecimal(decimal.RequireFromString(ratio))
	return b
}

// Build returns a copy of the transactions.
func (b *Builder) Build() []model.Transaction {
	return append([]model.Transaction(nil), b.txs...)
}

func (b *Builder) last() *model.Transaction {
	if len(b.txs) == 0 {
		panic("testutil: modifier called before Add")
	}
	return &b.txs[len(b.txs)-1]
}

// Household is a small two-day, two-card data set used across tests.
func Household() []model.Transaction {
	return NewBuilder().
		Add("2024-03-01", "Amex", "me", "Grocer", "40").Category("Food").
		Add("2024-03-02", "Amex", "mom", "Refund", "-10").Paid().
		Add("03/02/2024", "Visa", "dad", "Cafe", "4.50").Category("Food").Notes("latte").Cashback("0.03").
		Build()
}
