package model

import "fmt"

// All is the sentinel meaning a criterion imposes no constraint.
const All = "all"

// PaidFilter restricts transactions by payment status.
type PaidFilter string

// Paid filter values.
const (
	PaidAll    PaidFilter = "all"
	PaidOnly   PaidFilter = "paid"
	UnpaidOnly PaidFilter = "unpaid"
)

// ParsePaidFilter converts text into a PaidFilter.
func ParsePaidFilter(s string) (PaidFilter, error) {
	switch PaidFilter(s) {
	case PaidAll, "":
		return PaidAll, nil
	case PaidOnly:
		return PaidOnly, nil
	case UnpaidOnly:
		return UnpaidOnly, nil
	default:
		return PaidAll, fmt.Errorf("invalid paid filter %q: want all, paid, or unpaid", s)
	}
}

// Matches reports whether a paid flag satisfies the filter.
func (p PaidFilter) Matches(paid bool) bool {
	switch p {
	case PaidOnly:
		return paid
	case UnpaidOnly:
		return !paid
	default:
		return true
	}
}

// Next cycles through all, paid, unpaid.
func (p PaidFilter) Next() PaidFilter {
	switch p {
	case PaidAll, "":
		return PaidOnly
	case PaidOnly:
		return UnpaidOnly
	default:
		return PaidAll
	}
}

// FilterCriteria holds the active filters of the transaction list.
// StartDate and EndDate are empty or canonical date keys and are inclusive.
type FilterCriteria struct {
	Who       string     `json:"who"`
	Card      string     `json:"card"`
	Category  string     `json:"category"`
	Merchant  string     `json:"merchant"`
	Paid      PaidFilter `json:"paid"`
	StartDate string     `json:"startDate"`
	EndDate   string     `json:"endDate"`
}

// NoFilter returns criteria that match every transaction.
func NoFilter() FilterCriteria {
	return FilterCriteria{
		Who:      All,
		Card:     All,
		Category: All,
		Merchant: All,
		Paid:     PaidAll,
	}
}

// IsZero reports whether the criteria impose no constraint at all.
func (c FilterCriteria) IsZero() bool {
	return IsAll(c.Who) && IsAll(c.Card) && IsAll(c.Category) && IsAll(c.Merchant) &&
		(c.Paid == PaidAll || c.Paid == "") && c.StartDate == "" && c.EndDate == ""
}

// Normalized replaces blank criteria with the All sentinel.
func (c FilterCriteria) Normalized() FilterCriteria {
	if c.Who == "" {
		c.Who = All
	}
	if c.Card == "" {
		c.Card = All
	}
	if c.Category == "" {
		c.Category = All
	}
	if c.Merchant == "" {
		c.Merchant = All
	}
	if c.Paid == "" {
		c.Paid = PaidAll
	}
	return c
}

// IsAll reports whether a criterion value is the All sentinel or blank.
func IsAll(v string) bool {
	return v == "" || v == All
}

// FilterSnapshot is the persisted form of the filter panel.
type FilterSnapshot struct {
	FilterCriteria
	Visible bool `json:"showFilters"`
}

// FilterOptions lists the values the filter panel may offer.
// Each list begins with the All sentinel.
type FilterOptions struct {
	Who      []string
	Card     []string
	Category []string
	Merchant []string
}
