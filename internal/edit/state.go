// Package edit implements the inline edit and delete workflow.
//
// The workflow is a pure state machine: Transition maps the current State
// and an Event to the next State plus the Effects the caller must perform.
// Network effects report back as SaveResult and DeleteResult events tagged
// with the session they belong to, so late responses for a superseded
// session can be recognised.
package edit

import (
	"github.com/Veraticus/cardspend/internal/model"
)

// Phase is the coordinator's position in the workflow.
type Phase int

// Workflow phases.
const (
	Idle Phase = iota
	Editing
	Saving
	ConfirmingDelete
	Deleting
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	case ConfirmingDelete:
		return "confirming-delete"
	case Deleting:
		return "deleting"
	default:
		return "unknown"
	}
}

// State is the single edit session, if any.
type State struct {
	TxID    model.ID
	Draft   DraftForm
	Session uint64
	Phase   Phase
}

// Active reports whether a session is open.
func (s State) Active() bool {
	return s.Phase != Idle
}

// Busy reports whether a request for the session is in flight.
func (s State) Busy() bool {
	return s.Phase == Saving || s.Phase == Deleting
}

// Editing reports whether id is the record under edit.
func (s State) Editing(id model.ID) bool {
	return s.Active() && s.TxID == id
}

// Event is an input to the state machine.
type Event interface {
	event()
}

// StartEdit opens a session for Tx, or closes it if Tx is already open.
type StartEdit struct{ Tx model.Transaction }

// Cancel discards the open session.
type Cancel struct{}

// SetDraft replaces the working form.
type SetDraft struct{ Draft DraftForm }

// SubmitSave asks to save the working form.
type SubmitSave struct{}

// SubmitDelete asks to delete the record under edit.
type SubmitDelete struct{}

// ConfirmDelete answers the delete confirmation prompt.
type ConfirmDelete struct{ Confirmed bool }

// SaveResult reports the outcome of an update request.
type SaveResult struct {
	Err     error
	Record  *model.Transaction
	Session uint64
}

// DeleteResult reports the outcome of a delete request.
type DeleteResult struct {
	Err     error
	ID      model.ID
	Session uint64
}

func (StartEdit) event()     {}
func (Cancel) event()        {}
func (SetDraft) event()      {}
func (SubmitSave) event()    {}
func (SubmitDelete) event()  {}
func (ConfirmDelete) event() {}
func (SaveResult) event()    {}
func (DeleteResult) event()  {}

// Effect is work the caller performs after a transition.
type Effect interface {
	effect()
}

// SendUpdate sends a full replacement record to the service.
type SendUpdate struct {
	ID      model.ID
	Record  model.Transaction
	Session uint64
}

// SendDelete asks the service to delete a record.
type SendDelete struct {
	ID      model.ID
	Session uint64
}

// ApplyRecord replaces a record in the store with the server's echo.
type ApplyRecord struct{ Record model.Transaction }

// RemoveRecord removes a record from the store.
type RemoveRecord struct{ ID model.ID }

// ScrollTo brings a row into view. Best effort.
type ScrollTo struct{ ID model.ID }

// AskConfirm asks the user to confirm a delete.
type AskConfirm struct {
	ID     model.ID
	Prompt string
}

// Level classifies a notification.
type Level int

// Notification levels.
const (
	Info Level = iota
	Success
	Failure
)

// Notify surfaces a status message.
type Notify struct {
	Message string
	Level   Level
}

func (SendUpdate) effect()   {}
func (SendDelete) effect()   {}
func (ApplyRecord) effect()  {}
func (RemoveRecord) effect() {}
func (ScrollTo) effect()     {}
func (AskConfirm) effect()   {}
func (Notify) effect()       {}
