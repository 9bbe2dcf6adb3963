package api

import (
	"encoding/json"

	"github.com/Veraticus/cardspend/internal/model"
)

// recordBody is the request body for create and update. The id travels in
// the URL, never in the body.
type recordBody struct {
	CashbackRate *json.Number `json:"cashback_rate,omitempty"`
	Date         string       `json:"date"`
	Card         string       `json:"card"`
	Who          string       `json:"who"`
	Category     string       `json:"category"`
	Merchant     string       `json:"merchant"`
	Notes        string       `json:"notes"`
	Amount       json.Number  `json:"amount"`
	Paid         bool         `json:"paid"`
}

func newRecordBody(tx model.Transaction) recordBody {
	body := recordBody{
		Date:     tx.Date,
		Card:     tx.Card,
		Who:      tx.Who,
		Category: tx.Category,
		Merchant: tx.Merchant,
		Notes:    tx.Notes,
		Amount:   json.Number(tx.Amount.String()),
		Paid:     tx.Paid,
	}
	if tx.CashbackRate.Valid {
		rate := json.Number(tx.CashbackRate.Decimal.String())
		body.CashbackRate = &rate
	}
	return body
}
