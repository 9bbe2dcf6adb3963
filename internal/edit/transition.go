package edit

import (
	"errors"

	"github.com/Veraticus/cardspend/internal/common"
)

// Status messages.
const (
	MsgUpdated       = "Transaction updated"
	MsgDeleted       = "Transaction deleted"
	MsgConfirmDelete = "Delete this transaction?"

	actionUpdate = "update transaction"
	actionDelete = "delete transaction"
)

var errEmptyResponse = errors.New("empty response")

// Transition computes the next state. It never performs I/O.
func Transition(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case StartEdit:
		if s.Active() && s.TxID == ev.Tx.ID {
			return State{Session: s.Session}, nil
		}
		next := State{
			Phase:   Editing,
			TxID:    ev.Tx.ID,
			Draft:   NewDraft(ev.Tx),
			Session: s.Session + 1,
		}
		return next, []Effect{ScrollTo{ID: ev.Tx.ID}}

	case Cancel:
		return State{Session: s.Session}, nil

	case SetDraft:
		if s.Phase != Editing {
			return s, nil
		}
		s.Draft = ev.Draft
		return s, nil

	case SubmitSave:
		if s.Phase != Editing {
			return s, nil
		}
		record, err := s.Draft.Record(s.TxID)
		if err != nil {
			return s, []Effect{failure(actionUpdate, err)}
		}
		s.Phase = Saving
		return s, []Effect{SendUpdate{ID: s.TxID, Record: record, Session: s.Session}}

	case SubmitDelete:
		if s.Phase != Editing {
			return s, nil
		}
		s.Phase = ConfirmingDelete
		return s, []Effect{AskConfirm{ID: s.TxID, Prompt: MsgConfirmDelete}}

	case ConfirmDelete:
		if s.Phase != ConfirmingDelete {
			return s, nil
		}
		if !ev.Confirmed {
			s.Phase = Editing
			return s, nil
		}
		s.Phase = Deleting
		return s, []Effect{SendDelete{ID: s.TxID, Session: s.Session}}

	case SaveResult:
		return onSaveResult(s, ev)

	case DeleteResult:
		return onDeleteResult(s, ev)
	}

	return s, nil
}

func onSaveResult(s State, ev SaveResult) (State, []Effect) {
	current := s.Phase == Saving && s.Session == ev.Session

	err := ev.Err
	if err == nil && ev.Record == nil {
		err = &common.TransportError{Op: actionUpdate, Err: errEmptyResponse}
	}

	if err != nil {
		if !current {
			return s, nil
		}
		s.Phase = Editing
		return s, []Effect{failure(actionUpdate, err)}
	}

	// The server confirmed the change, so the store takes it even when the
	// user has moved on.
	effects := []Effect{ApplyRecord{Record: *ev.Record}}
	if !current {
		return s, effects
	}
	return State{Session: s.Session}, append(effects, Notify{Level: Success, Message: MsgUpdated})
}

func onDeleteResult(s State, ev DeleteResult) (State, []Effect) {
	current := s.Phase == Deleting && s.Session == ev.Session

	if ev.Err != nil {
		if !current {
			return s, nil
		}
		s.Phase = Editing
		return s, []Effect{failure(actionDelete, ev.Err)}
	}

	effects := []Effect{RemoveRecord{ID: ev.ID}}
	if current || (s.Active() && s.TxID == ev.ID) {
		return State{Session: s.Session}, append(effects, Notify{Level: Success, Message: MsgDeleted})
	}
	return s, effects
}

func failure(action string, err error) Notify {
	return Notify{Level: Failure, Message: common.UserMessage(action, err)}
}
