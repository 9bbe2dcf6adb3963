package tui

import (
	"context"
	"errors"
	"time"

	"github.com/Veraticus/cardspend/internal/common"
	"github.com/Veraticus/cardspend/internal/edit"
	"github.com/Veraticus/cardspend/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

var errNoService = errors.New("transaction service not configured")

// loadTransactions fetches every record for a full store load.
func (m Model) loadTransactions() tea.Cmd {
	svc, timeout, parent := m.config.Service, m.config.LoadTimeout, m.ctx
	return func() tea.Msg {
		if svc == nil {
			return transactionsLoadedMsg{err: errNoService}
		}

		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()

		transactions, err := svc.ListTransactions(ctx)
		return transactionsLoadedMsg{transactions: transactions, err: err}
	}
}

// loadRoster fetches the people transactions can be attributed to.
func (m Model) loadRoster() tea.Cmd {
	svc, timeout, parent := m.config.Service, m.config.LoadTimeout, m.ctx
	return func() tea.Msg {
		if svc == nil {
			return rosterLoadedMsg{err: errNoService}
		}

		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()

		roster, err := svc.ListPeople(ctx)
		return rosterLoadedMsg{roster: roster, err: err}
	}
}

// loadSummary fetches the per-card aggregation.
func (m Model) loadSummary() tea.Cmd {
	svc, timeout, parent := m.config.Service, m.config.LoadTimeout, m.ctx
	return func() tea.Msg {
		if svc == nil {
			return summaryLoadedMsg{err: errNoService}
		}

		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()

		summary, err := svc.SummaryByCard(ctx)
		return summaryLoadedMsg{summary: summary, err: err}
	}
}

// perform runs an update or delete request off the event loop.
func (m Model) perform(eff edit.Effect) tea.Cmd {
	svc, timeout, parent := m.config.Service, m.config.RequestTimeout, m.ctx
	return func() tea.Msg {
		if svc == nil {
			return editResultMsg{event: failedResult(eff, errNoService)}
		}
		return editResultMsg{event: edit.Perform(parent, svc, timeout, eff)}
	}
}

// failedResult builds the result event for a request that never ran.
func failedResult(eff edit.Effect, err error) edit.Event {
	switch eff := eff.(type) {
	case edit.SendUpdate:
		return edit.SaveResult{Session: eff.Session, Err: err}
	case edit.SendDelete:
		return edit.DeleteResult{Session: eff.Session, ID: eff.ID, Err: err}
	}
	return nil
}

// createTransaction posts a new record.
func (m Model) createTransaction(record model.Transaction) tea.Cmd {
	svc, timeout, parent := m.config.Service, m.config.RequestTimeout, m.ctx
	return func() tea.Msg {
		if svc == nil {
			return createdMsg{err: errNoService}
		}

		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()

		created, err := svc.CreateTransaction(ctx, record)
		if err != nil {
			common.LogWarn(err, "Create transaction failed", common.Fields{"card": record.Card})
		}
		return createdMsg{record: created, err: err}
	}
}

func clearStatusAfter(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}
