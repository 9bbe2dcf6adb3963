package edit

import (
	"context"
	"time"

	"github.com/Veraticus/cardspend/internal/common"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/service"
)

// Writer is the write side of the transaction store.
type Writer interface {
	ApplyUpdate(record model.Transaction) bool
	RemoveByID(id model.ID) bool
}

// Coordinator owns the edit state and is the only writer of the store after
// the initial load. It is not safe for concurrent use.
type Coordinator struct {
	store Writer
	state State
}

// NewCoordinator creates an idle coordinator writing to store.
func NewCoordinator(store Writer) *Coordinator {
	return &Coordinator{store: store}
}

// State returns the current session.
func (c *Coordinator) State() State {
	return c.state
}

// Handle advances the state machine, applies store effects, and returns the
// effects left for the caller (network, scroll, confirm, notify).
func (c *Coordinator) Handle(ev Event) []Effect {
	next, effects := Transition(c.state, ev)
	if next.Phase != c.state.Phase {
		common.LogDebug("Edit phase changed", common.Fields{
			"from":    c.state.Phase.String(),
			"to":      next.Phase.String(),
			"id":      next.TxID.String(),
			"session": next.Session,
		})
	}
	c.state = next

	var rest []Effect
	for _, eff := range effects {
		switch eff := eff.(type) {
		case ApplyRecord:
			if !c.store.ApplyUpdate(eff.Record) {
				common.LogDebug("Update for unknown transaction ignored", common.Fields{"id": eff.Record.ID.String()})
			}
		case RemoveRecord:
			c.store.RemoveByID(eff.ID)
		default:
			rest = append(rest, eff)
		}
	}
	return rest
}

// Perform runs a network effect and returns the event reporting its outcome.
// It returns nil for effects that are not network requests. Each request is
// bounded by timeout when it is positive.
func Perform(ctx context.Context, m service.Mutations, timeout time.Duration, eff Effect) Event {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	switch eff := eff.(type) {
	case SendUpdate:
		record, err := m.UpdateTransaction(ctx, eff.ID, eff.Record)
		return SaveResult{Session: eff.Session, Record: record, Err: err}
	case SendDelete:
		err := m.DeleteTransaction(ctx, eff.ID)
		return DeleteResult{Session: eff.Session, ID: eff.ID, Err: err}
	}
	return nil
}

// Runner drives the coordinator synchronously, for callers without an event
// loop of their own.
type Runner struct {
	Coordinator *Coordinator
	Mutations   service.Mutations
	// Confirm answers delete prompts. A nil Confirm declines.
	Confirm func(prompt string) bool
	Timeout time.Duration
}

// Dispatch feeds ev to the coordinator and keeps performing effects until
// none remain. It returns the notifications raised along the way.
func (r *Runner) Dispatch(ctx context.Context, ev Event) []Notify {
	var notes []Notify
	queue := []Event{ev}

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		for _, eff := range r.Coordinator.Handle(next) {
			switch eff := eff.(type) {
			case SendUpdate, SendDelete:
				queue = append(queue, Perform(ctx, r.Mutations, r.Timeout, eff))
			case AskConfirm:
				confirmed := r.Confirm != nil && r.Confirm(eff.Prompt)
				queue = append(queue, ConfirmDelete{Confirmed: confirmed})
			case Notify:
				notes = append(notes, eff)
			}
		}
	}
	return notes
}
