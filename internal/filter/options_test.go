package filter

import (
	"testing"

	"github.com/Veraticus/cardspend/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	txs := []model.Transaction{
		{ID: "1", Card: "Visa", Category: "Groceries", Merchant: "Walmart"},
		{ID: "2", Card: "Amex", Category: "", Merchant: "Target"},
		{ID: "3", Card: "Amex", Category: "Dining", Merchant: "Walmart"},
	}

	opts := Options(txs, []model.Person{{Name: "me"}, {Name: "mom"}})

	assert.Equal(t, []string{"all", "me", "mom"}, opts.Who)
	assert.Equal(t, []string{"all", "Amex", "Visa"}, opts.Card)
	assert.Equal(t, []string{"all", "Dining", "Groceries"}, opts.Category)
	assert.Equal(t, []string{"all", "Target", "Walmart"}, opts.Merchant)
}

func TestOptions_Empty(t *testing.T) {
	opts := Options(nil, nil)
	assert.Equal(t, []string{"all"}, opts.Who)
	assert.Equal(t, []string{"all"}, opts.Card)
}

func TestCycle(t *testing.T) {
	opts := []string{"all", "Amex", "Visa"}
	assert.Equal(t, "Amex", Cycle(opts, "all", 1))
	assert.Equal(t, "all", Cycle(opts, "Visa", 1))
	assert.Equal(t, "Visa", Cycle(opts, "all", -1))
	assert.Equal(t, "all", Cycle(opts, "Discover", 1))
	assert.Equal(t, "all", Cycle(nil, "Amex", 1))
}

func TestSuggest(t *testing.T) {
	opts := []string{"all", "Walmart", "Target", "Costco"}

	tests := []struct {
		value string
		want  string
	}{
		{"walmrt", "Walmart"},
		{"TARGET", "Target"},
		{"costco", "Costco"},
		{"xyzzy", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Suggest(tt.value, opts), tt.value)
	}
}
