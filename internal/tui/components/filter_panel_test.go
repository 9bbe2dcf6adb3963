package components

import (
	"testing"

	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func panelFixture() FilterPanelModel {
	p := NewFilterPanel(themes.Default)
	p.SetOptions(model.FilterOptions{
		Who:      []string{model.All, "me", "mom"},
		Card:     []string{model.All, "Amex", "Visa"},
		Category: []string{model.All, "Food"},
		Merchant: []string{model.All, "Cafe", "Grocer"},
	})
	p.Focus()
	return p
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestFilterPanel_CyclesSelectors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*FilterPanelModel)
		keys  []tea.KeyMsg
		want  FilterChangedMsg
	}{
		{
			name: "who forward from all",
			keys: []tea.KeyMsg{key(tea.KeyRight)},
			want: FilterChangedMsg{Field: FieldWho, Value: "me"},
		},
		{
			name: "who backward wraps",
			keys: []tea.KeyMsg{key(tea.KeyLeft)},
			want: FilterChangedMsg{Field: FieldWho, Value: "mom"},
		},
		{
			name: "card after tab",
			keys: []tea.KeyMsg{key(tea.KeyTab), key(tea.KeyRight)},
			want: FilterChangedMsg{Field: FieldCard, Value: "Amex"},
		},
		{
			name: "merchant continues from current criteria",
			setup: func(p *FilterPanelModel) {
				c := model.NoFilter()
				c.Merchant = "Cafe"
				p.SetCriteria(c)
			},
			keys: []tea.KeyMsg{key(tea.KeyTab), key(tea.KeyTab), key(tea.KeyTab), key(tea.KeyRight)},
			want: FilterChangedMsg{Field: FieldMerchant, Value: "Grocer"},
		},
		{
			name: "paid cycles all to paid",
			keys: []tea.KeyMsg{key(tea.KeyTab), key(tea.KeyTab), key(tea.KeyTab), key(tea.KeyTab), key(tea.KeyRight)},
			want: FilterChangedMsg{Field: FieldPaid, Value: "paid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := panelFixture()
			if tt.setup != nil {
				tt.setup(&p)
			}
			var cmd tea.Cmd
			for _, k := range tt.keys {
				p, cmd = p.Update(k)
			}
			assert.Equal(t, tt.want, runCmd(t, cmd))
		})
	}
}

func TestFilterPanel_DateEntry(t *testing.T) {
	p := panelFixture()
	for p.FocusedField() != FieldStartDate {
		p, _ = p.Update(key(tea.KeyTab))
	}
	assert.True(t, p.Editing())

	p, _ = p.Update(runes("2024-01-01"))
	p, cmd := p.Update(key(tea.KeyEnter))
	assert.Equal(t, FilterChangedMsg{Field: FieldStartDate, Value: "2024-01-01"}, runCmd(t, cmd))

	_, cmd = p.Update(key(tea.KeyCtrlU))
	assert.Equal(t, FilterChangedMsg{Field: FieldStartDate, Value: ""}, runCmd(t, cmd))
}

func TestFilterPanel_ResetAndBlur(t *testing.T) {
	p := panelFixture()
	p, cmd := p.Update(key(tea.KeyCtrlR))
	assert.Equal(t, FilterResetMsg{}, runCmd(t, cmd))

	p.Blur()
	assert.False(t, p.Focused())
	_, cmd = p.Update(key(tea.KeyRight))
	assert.Nil(t, cmd)
}

func TestFilterPanel_View(t *testing.T) {
	p := NewFilterPanel(themes.Default)
	c := model.NoFilter()
	c.Card = "Amex"
	c.Paid = model.UnpaidOnly
	c.StartDate = "2024-01-01"
	p.SetCriteria(c)

	out := p.View()
	assert.Contains(t, out, "Card: ")
	assert.Contains(t, out, "Amex")
	assert.Contains(t, out, "unpaid")
	assert.Contains(t, out, "2024-01-01")
}
