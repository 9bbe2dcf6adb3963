package edit

import (
	"strings"

	"github.com/Veraticus/cardspend/internal/common"
	"github.com/Veraticus/cardspend/internal/datekey"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/shopspring/decimal"
)

// DraftForm is the editable text form of a transaction.
type DraftForm struct {
	Date            string
	Card            string
	Who             string
	Category        string
	Merchant        string
	Notes           string
	Amount          string
	CashbackPercent string
	Paid            bool
}

// NewDraft snapshots a transaction into a form. The date is normalized so a
// date input receives a canonical key; the cashback rate is shown as a
// percentage.
func NewDraft(tx model.Transaction) DraftForm {
	return DraftForm{
		Date:            datekey.Normalize(tx.Date),
		Card:            tx.Card,
		Who:             tx.Who,
		Category:        tx.Category,
		Merchant:        tx.Merchant,
		Notes:           tx.Notes,
		Amount:          tx.Amount.String(),
		CashbackPercent: RatioToPercent(tx.CashbackRate),
		Paid:            tx.Paid,
	}
}

// Record converts the form back into a full replacement record for id.
// A blank id produces a record for creation.
func (d DraftForm) Record(id model.ID) (model.Transaction, error) {
	amountText := strings.TrimSpace(d.Amount)
	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return model.Transaction{}, &common.ValidationError{Field: "amount", Value: d.Amount, Reason: "not a number"}
	}
	card := strings.TrimSpace(d.Card)
	if card == "" {
		return model.Transaction{}, &common.ValidationError{Field: "card", Reason: "required"}
	}

	return model.Transaction{
		ID:           id,
		Date:         strings.TrimSpace(d.Date),
		Card:         card,
		Who:          d.Who,
		Category:     d.Category,
		Merchant:     d.Merchant,
		Notes:        d.Notes,
		Amount:       amount,
		CashbackRate: decimal.NewNullDecimal(PercentToRatio(d.CashbackPercent)),
		Paid:         d.Paid,
	}, nil
}

var hundred = decimal.NewFromInt(100)

// PercentToRatio reads a user-typed cashback value. Values above 1 are whole
// percentages and are divided by 100; values at or below 1 are already
// ratios. Blank or non-numeric input is 0.
//
// A true 1% typed as "1" therefore reads as a 100% ratio.
func PercentToRatio(s string) decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	if v.GreaterThan(decimal.NewFromInt(1)) {
		return v.Shift(-2)
	}
	return v
}

// RatioToPercent renders a stored ratio as percentage text, or "" when no
// rate is tracked.
func RatioToPercent(rate decimal.NullDecimal) string {
	if !rate.Valid {
		return ""
	}
	return rate.Decimal.Mul(hundred).String()
}
