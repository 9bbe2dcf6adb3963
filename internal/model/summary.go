package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PersonTotals is one person's share of a card summary.
type PersonTotals struct {
	Total           decimal.Decimal `json:"total"`
	Paid            decimal.Decimal `json:"paid"`
	Owes            decimal.Decimal `json:"owes"`
	CashbackEarned  decimal.Decimal `json:"cashback_earned"`
	CashbackPending decimal.Decimal `json:"cashback_pending"`
}

// CardSummary is the aggregation service's view of one card.
type CardSummary struct {
	PerPerson       map[string]PersonTotals `json:"per_person"`
	Total           decimal.Decimal         `json:"total"`
	Paid            decimal.Decimal         `json:"paid"`
	Unpaid          decimal.Decimal         `json:"unpaid"`
	CashbackEarned  decimal.Decimal         `json:"cashback_earned"`
	CashbackPending decimal.Decimal         `json:"cashback_pending"`
}

// SummaryByCard maps card names to their summaries.
type SummaryByCard map[string]CardSummary

// Cards returns the card names in alphabetical order.
func (s SummaryByCard) Cards() []string {
	cards := make([]string, 0, len(s))
	for card := range s {
		cards = append(cards, card)
	}
	sort.Strings(cards)
	return cards
}

// People returns the names in a card summary in alphabetical order.
func (c CardSummary) People() []string {
	people := make([]string, 0, len(c.PerPerson))
	for name := range c.PerPerson {
		people = append(people, name)
	}
	sort.Strings(people)
	return people
}
