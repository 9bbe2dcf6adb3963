package tui

import (
	"github.com/Veraticus/cardspend/internal/edit"
	"github.com/Veraticus/cardspend/internal/model"
)

// Data loading messages.
type transactionsLoadedMsg struct {
	err          error
	transactions []model.Transaction
}

type rosterLoadedMsg struct {
	err    error
	roster []model.Person
}

type summaryLoadedMsg struct {
	err     error
	summary model.SummaryByCard
}

// editResultMsg carries the outcome of an update or delete request back
// into the event loop.
type editResultMsg struct {
	event edit.Event
}

type createdMsg struct {
	err    error
	record *model.Transaction
}

// statusClearMsg clears the status line if no newer message replaced it.
type statusClearMsg struct {
	seq int
}
