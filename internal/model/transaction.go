// Package model defines the core domain models used throughout the application.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ID identifies a transaction. The server assigns it and it never changes.
// The wire form may be a JSON number or a JSON string.
type ID string

// UnmarshalJSON accepts both numeric and string identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier as text.
func (id ID) String() string {
	return string(id)
}

// Transaction represents a single credit card charge or deposit.
type Transaction struct {
	ID           ID                  `json:"id"`
	Date         string              `json:"date"`     // YYYY-MM-DD or MM/DD/YYYY, not normalized
	Card         string              `json:"card"`
	Who          string              `json:"who"`
	Category     string              `json:"category"`
	Merchant     string              `json:"merchant"`
	Notes        string              `json:"notes"`
	Amount       decimal.Decimal     `json:"amount"`        // negative means money received
	CashbackRate decimal.NullDecimal `json:"cashback_rate"` // ratio, not percent; invalid when not tracked
	Paid         bool                `json:"paid"`
}

// IsDeposit reports whether the transaction moved money onto the card.
func (t Transaction) IsDeposit() bool {
	return t.Amount.IsNegative()
}

// Label returns the most descriptive name available for display.
func (t Transaction) Label() string {
	switch {
	case strings.TrimSpace(t.Merchant) != "":
		return t.Merchant
	case strings.TrimSpace(t.Category) != "":
		return t.Category
	default:
		return t.Card
	}
}

// HasCashbackRate reports whether a cashback rate is tracked for the transaction.
func (t Transaction) HasCashbackRate() bool {
	return t.CashbackRate.Valid
}

// Cashback returns amount × rate, or zero when no rate is tracked.
func (t Transaction) Cashback() decimal.Decimal {
	if !t.CashbackRate.Valid {
		return decimal.Zero
	}
	return t.Amount.Mul(t.CashbackRate.Decimal)
}

// Person is a member of the roster a transaction can be attributed to.
type Person struct {
	Name string `json:"name"`
}

// DefaultRoster is used when the roster cannot be fetched.
func DefaultRoster() []Person {
	return []Person{{Name: "me"}, {Name: "mom"}, {Name: "dad"}}
}

// RosterFromNames builds a roster from plain names, skipping blanks.
func RosterFromNames(names []string) []Person {
	roster := make([]Person, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		roster = append(roster, Person{Name: name})
	}
	return roster
}

// Names returns the roster as plain names.
func Names(roster []Person) []string {
	names := make([]string, 0, len(roster))
	for _, p := range roster {
		names = append(names, p.Name)
	}
	return names
}
