package filter

import (
	"sort"
	"strings"

	"github.com/Veraticus/cardspend/internal/model"
	"github.com/agnivade/levenshtein"
)

// Options derives the selectable values of each criterion. Card, category
// and merchant come from the transactions themselves; who comes from the
// roster. The All sentinel leads every list.
func Options(txs []model.Transaction, roster []model.Person) model.FilterOptions {
	cards := make(map[string]struct{})
	categories := make(map[string]struct{})
	merchants := make(map[string]struct{})

	for _, tx := range txs {
		addNonEmpty(cards, tx.Card)
		addNonEmpty(categories, tx.Category)
		addNonEmpty(merchants, tx.Merchant)
	}

	who := []string{model.All}
	for _, p := range roster {
		if strings.TrimSpace(p.Name) != "" {
			who = append(who, p.Name)
		}
	}

	return model.FilterOptions{
		Who:      who,
		Card:     withAll(cards),
		Category: withAll(categories),
		Merchant: withAll(merchants),
	}
}

// Cycle returns the option after current, wrapping around. A current value
// that is not in the list yields the first option.
func Cycle(options []string, current string, step int) string {
	if len(options) == 0 {
		return model.All
	}
	idx := -1
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return options[0]
	}
	n := len(options)
	return options[((idx+step)%n+n)%n]
}

// Suggest returns the option closest to value by edit distance, compared
// case-insensitively. It returns "" when nothing is reasonably close.
func Suggest(value string, options []string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}

	best := ""
	bestDist := -1
	for _, o := range options {
		if o == model.All {
			continue
		}
		d := levenshtein.ComputeDistance(value, strings.ToLower(o))
		if bestDist < 0 || d < bestDist {
			best, bestDist = o, d
		}
	}

	// More than half the input changed is not a typo.
	if bestDist < 0 || bestDist*2 > len(value) {
		return ""
	}
	return best
}

func addNonEmpty(set map[string]struct{}, v string) {
	if strings.TrimSpace(v) == "" {
		return
	}
	set[v] = struct{}{}
}

func withAll(set map[string]struct{}) []string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return append([]string{model.All}, values...)
}
