// Package filter owns the active filter criteria of the transaction list and
// keeps them persisted across sessions.
package filter

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Veraticus/cardspend/internal/common"
	"github.com/Veraticus/cardspend/internal/datekey"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/service"
)

// StorageKey is the preference key the snapshot lives under.
const StorageKey = "transactionFilters"

// State is the current filter snapshot plus its persistence.
// It is not safe for concurrent use.
type State struct {
	prefs service.PreferenceStore
	snap  model.FilterSnapshot
}

// New restores the persisted snapshot. A missing or unreadable snapshot
// yields no filter with the panel hidden. prefs may be nil, in which case
// nothing is restored or saved.
func New(ctx context.Context, prefs service.PreferenceStore) *State {
	s := &State{
		prefs: prefs,
		snap:  model.FilterSnapshot{FilterCriteria: model.NoFilter()},
	}
	if prefs == nil {
		return s
	}

	data, err := prefs.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			common.LogWarn(err, "Failed to restore filters", common.Fields{"key": StorageKey})
		}
		return s
	}

	var snap model.FilterSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		common.LogWarn(err, "Discarding malformed filter snapshot", common.Fields{"key": StorageKey})
		if err := prefs.Delete(ctx, StorageKey); err != nil {
			common.LogWarn(err, "Failed to discard filter snapshot", common.Fields{"key": StorageKey})
		}
		return s
	}
	snap.FilterCriteria = sanitize(snap.FilterCriteria)
	s.snap = snap
	return s
}

// Criteria returns the active criteria.
func (s *State) Criteria() model.FilterCriteria {
	return s.snap.FilterCriteria
}

// Snapshot returns the full persisted unit.
func (s *State) Snapshot() model.FilterSnapshot {
	return s.snap
}

// Visible reports whether the filter panel is shown.
func (s *State) Visible() bool {
	return s.snap.Visible
}

// SetWho sets the person criterion.
func (s *State) SetWho(ctx context.Context, who string) {
	s.snap.Who = orAll(who)
	s.persist(ctx)
}

// SetCard sets the card criterion.
func (s *State) SetCard(ctx context.Context, card string) {
	s.snap.Card = orAll(card)
	s.persist(ctx)
}

// SetCategory sets the category criterion.
func (s *State) SetCategory(ctx context.Context, category string) {
	s.snap.Category = orAll(category)
	s.persist(ctx)
}

// SetMerchant sets the merchant criterion.
func (s *State) SetMerchant(ctx context.Context, merchant string) {
	s.snap.Merchant = orAll(merchant)
	s.persist(ctx)
}

// SetPaid sets the payment status criterion.
func (s *State) SetPaid(ctx context.Context, paid model.PaidFilter) {
	if paid == "" {
		paid = model.PaidAll
	}
	s.snap.Paid = paid
	s.persist(ctx)
}

// SetStartDate sets the inclusive lower bound. Input that does not normalize
// to a date key clears the bound.
func (s *State) SetStartDate(ctx context.Context, date string) {
	s.snap.StartDate = dateBound(date)
	s.persist(ctx)
}

// SetEndDate sets the inclusive upper bound. Input that does not normalize
// to a date key clears the bound.
func (s *State) SetEndDate(ctx context.Context, date string) {
	s.snap.EndDate = dateBound(date)
	s.persist(ctx)
}

// SetVisible shows or hides the filter panel.
func (s *State) SetVisible(ctx context.Context, visible bool) {
	s.snap.Visible = visible
	s.persist(ctx)
}

// ToggleVisible flips panel visibility.
func (s *State) ToggleVisible(ctx context.Context) {
	s.SetVisible(ctx, !s.snap.Visible)
}

// Apply replaces every criterion at once, keeping panel visibility.
func (s *State) Apply(ctx context.Context, criteria model.FilterCriteria) {
	s.snap.FilterCriteria = sanitize(criteria)
	s.persist(ctx)
}

// Reset clears every criterion. Panel visibility is kept.
func (s *State) Reset(ctx context.Context) {
	s.snap.FilterCriteria = model.NoFilter()
	s.persist(ctx)
}

func (s *State) persist(ctx context.Context) {
	if s.prefs == nil {
		return
	}
	data, err := json.Marshal(s.snap)
	if err != nil {
		common.LogWarn(err, "Failed to encode filters", nil)
		return
	}
	if err := s.prefs.Put(ctx, StorageKey, data); err != nil {
		common.LogWarn(err, "Failed to persist filters", common.Fields{"key": StorageKey})
	}
}

func sanitize(c model.FilterCriteria) model.FilterCriteria {
	c = c.Normalized()
	if _, err := model.ParsePaidFilter(string(c.Paid)); err != nil {
		c.Paid = model.PaidAll
	}
	c.StartDate = dateBound(c.StartDate)
	c.EndDate = dateBound(c.EndDate)
	return c
}

func orAll(v string) string {
	if v == "" {
		return model.All
	}
	return v
}

func dateBound(v string) string {
	if v == "" {
		return ""
	}
	key := datekey.Normalize(v)
	if !datekey.IsCanonical(key) {
		return ""
	}
	return key
}
