// Package grouping derives the presented view of the transaction list:
// filtered, sorted newest first, and partitioned into date groups.
package grouping

import (
	"sort"

	"github.com/Veraticus/cardspend/internal/datekey"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/shopspring/decimal"
)

// Group is every matching transaction that shares one date key.
type Group struct {
	Key          string
	Label        string
	Transactions []model.Transaction
	Spent        decimal.Decimal
	Received     decimal.Decimal
}

// Result is a derived view plus enough context to tell an empty store from
// a filter that matched nothing.
type Result struct {
	Groups  []Group
	Total   int
	Matched int
}

// NoData reports that there is nothing to show because the store is empty.
func (r Result) NoData() bool {
	return r.Total == 0
}

// NoMatches reports that the store has data but the criteria excluded all of it.
func (r Result) NoMatches() bool {
	return r.Total > 0 && r.Matched == 0
}

// Transactions flattens the groups back into display order.
func (r Result) Transactions() []model.Transaction {
	out := make([]model.Transaction, 0, r.Matched)
	for _, g := range r.Groups {
		out = append(out, g.Transactions...)
	}
	return out
}

// Matches reports whether a transaction satisfies every criterion.
func Matches(tx model.Transaction, c model.FilterCriteria) bool {
	if !model.IsAll(c.Who) && tx.Who != c.Who {
		return false
	}
	if !model.IsAll(c.Card) && tx.Card != c.Card {
		return false
	}
	if !model.IsAll(c.Category) && tx.Category != c.Category {
		return false
	}
	if !model.IsAll(c.Merchant) && tx.Merchant != c.Merchant {
		return false
	}
	if !c.Paid.Matches(tx.Paid) {
		return false
	}
	if c.StartDate == "" && c.EndDate == "" {
		return true
	}

	key := datekey.Normalize(tx.Date)
	if c.StartDate != "" && key < c.StartDate {
		return false
	}
	if c.EndDate != "" && key > c.EndDate {
		return false
	}
	return true
}

// Filter returns the transactions matching c, in input order.
func Filter(txs []model.Transaction, c model.FilterCriteria) []model.Transaction {
	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if Matches(tx, c) {
			out = append(out, tx)
		}
	}
	return out
}

// SortByDateDesc orders transactions newest first by normalized date key.
// Ties keep their input order.
func SortByDateDesc(txs []model.Transaction) {
	keys := make([]string, len(txs))
	for i, tx := range txs {
		keys[i] = datekey.Normalize(tx.Date)
	}
	sort.Stable(byKeyDesc{txs: txs, keys: keys})
}

// byKeyDesc sorts transactions and their precomputed keys together.
type byKeyDesc struct {
	txs  []model.Transaction
	keys []string
}

func (b byKeyDesc) Len() int           { return len(b.txs) }
func (b byKeyDesc) Less(i, j int) bool { return b.keys[i] > b.keys[j] }
func (b byKeyDesc) Swap(i, j int) {
	b.txs[i], b.txs[j] = b.txs[j], b.txs[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

// GroupByDate partitions already-sorted transactions into consecutive
// groups by date key.
func GroupByDate(sorted []model.Transaction) []Group {
	var groups []Group
	for _, tx := range sorted {
		key := datekey.Normalize(tx.Date)
		if n := len(groups); n > 0 && groups[n-1].Key == key {
			groups[n-1].add(tx)
			continue
		}
		g := Group{Key: key, Label: datekey.Format(key)}
		g.add(tx)
		groups = append(groups, g)
	}
	return groups
}

// Derive runs the whole pipeline.
func Derive(txs []model.Transaction, c model.FilterCriteria) Result {
	matched := Filter(txs, c)
	SortByDateDesc(matched)
	return Result{
		Groups:  GroupByDate(matched),
		Total:   len(txs),
		Matched: len(matched),
	}
}

func (g *Group) add(tx model.Transaction) {
	g.Transactions = append(g.Transactions, tx)
	if tx.IsDeposit() {
		g.Received = g.Received.Add(tx.Amount.Neg())
	} else {
		g.Spent = g.Spent.Add(tx.Amount)
	}
}
