package edit

import (
	"errors"
	"testing"

	"github.com/Veraticus/cardspend/internal/common"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(id string) model.Transaction {
	return model.Transaction{
		ID:           model.ID(id),
		Date:         "2024-01-02",
		Card:         "Amex",
		Who:          "me",
		Amount:       decimal.NewFromInt(10),
		CashbackRate: decimal.NewNullDecimal(decimal.RequireFromString("0.03")),
	}
}

func networkEffects(effects []Effect) []Effect {
	var out []Effect
	for _, e := range effects {
		switch e.(type) {
		case SendUpdate, SendDelete:
			out = append(out, e)
		}
	}
	return out
}

func TestStartEdit(t *testing.T) {
	s, effects := Transition(State{}, StartEdit{Tx: sample("1")})

	assert.Equal(t, Editing, s.Phase)
	assert.Equal(t, model.ID("1"), s.TxID)
	assert.Equal(t, "3", s.Draft.CashbackPercent)
	assert.Equal(t, []Effect{ScrollTo{ID: "1"}}, effects)
}

func TestStartEdit_SameRowToggles(t *testing.T) {
	s, _ := Transition(State{}, StartEdit{Tx: sample("1")})
	s, effects := Transition(s, StartEdit{Tx: sample("1")})

	assert.Equal(t, Idle, s.Phase)
	assert.Empty(t, effects)

	s, _ = Transition(State{}, StartEdit{Tx: sample("1")})
	s, _ = Transition(s, SubmitSave{})
	require.Equal(t, Saving, s.Phase)
	s, _ = Transition(s, StartEdit{Tx: sample("1")})
	assert.Equal(t, Idle, s.Phase)
}

func TestStartEdit_OneSessionAtATime(t *testing.T) {
	s, _ := Transition(State{}, StartEdit{Tx: sample("A")})
	draft := s.Draft
	draft.Notes = "unsaved"
	s, _ = Transition(s, SetDraft{Draft: draft})
	first := s.Session

	s, effects := Transition(s, StartEdit{Tx: sample("B")})

	assert.Equal(t, Editing, s.Phase)
	assert.Equal(t, model.ID("B"), s.TxID)
	assert.Equal(t, "", s.Draft.Notes, "A's draft is discarded")
	assert.Greater(t, s.Session, first)
	assert.Empty(t, networkEffects(effects), "no request is sent for A")
}

func TestCancel(t *testing.T) {
	s, effects := Transition(State{}, Cancel{})
	assert.Equal(t, Idle, s.Phase)
	assert.Empty(t, effects)

	s, _ = Transition(State{}, StartEdit{Tx: sample("1")})
	s, _ = Transition(s, Cancel{})
	assert.Equal(t, Idle, s.Phase)
	assert.False(t, s.Active())
}

func TestSetDraft_OnlyWhileEditing(t *testing.T) {
	s, _ := Transition(State{}, SetDraft{Draft: DraftForm{Amount: "1"}})
	assert.Equal(t, DraftForm{}, s.Draft)
}

func TestSubmitSave(t *testing.T) {
	s, _ := Transition(State{}, StartEdit{Tx: sample("1")})
	s, effects := Transition(s, SubmitSave{})

	require.Equal(t, Saving, s.Phase)
	require.Len(t, effects, 1)
	upd, ok := effects[0].(SendUpdate)
	require.True(t, ok)
	assert.Equal(t, model.ID("1"), upd.ID)
	assert.Equal(t, s.Session, upd.Session)
	assert.True(t, decimal.RequireFromString("0.03").Equal(upd.Record.CashbackRate.Decimal))
	assert.True(t, decimal.NewFromInt(10).Equal(upd.Record.Amount))
}

func TestSubmitSave_ValidationFailure(t *testing.T) {
	s, _ := Transition(State{}, StartEdit{Tx: sample("1")})
	draft := s.Draft
	draft.Amount = "lots"
	s, _ = Transition(s, SetDraft{Draft: draft})

	s, effects := Transition(s, SubmitSave{})

	assert.Equal(t, Editing, s.Phase)
	assert.Equal(t, "lots", s.Draft.Amount)
	assert.Equal(t, []Effect{Notify{Level: Failure, Message: "Amount must be a number."}}, effects)
}

func TestSubmitSave_IgnoredWhenNotEditing(t *testing.T) {
	s, effects := Transition(State{}, SubmitSave{})
	assert.Equal(t, Idle, s.Phase)
	assert.Empty(t, effects)
}

func TestSaveResult_Success(t *testing.T) {
	s, _ := Transition(State{}, StartEdit{Tx: sample("1")})
	s, _ = Transition(s, SubmitSave{})

	echo := sample("1")
	echo.Merchant = "Normalized"
	s, effects := Transition(s, SaveResult{Session: s.Session, Record: &echo})

	assert.Equal(t, Idle, s.Phase)
	assert.Equal(t, []Effect{
		ApplyRecord{Record: echo},
		Notify{Level: Success, Message: MsgUpdated},
	}, effects)
}

func TestSaveResult_FailureKeepsDraft(t *testing.T) {
	s, _ := Transition(State{}, StartEdit{Tx: sample("1")})
	draft := s.Draft
	draft.Amount = "42"
	s, _ = Transition(s, SetDraft{Draft: draft})
	s, _ = Transition(s, SubmitSave{})

	s, effects := Transition(s, SaveResult{Session: s.Session, Err: &common.RequestError{Op: "update", StatusCode: 500}})

	assert.Equal(t, Editing, s.Phase)
	assert.Equal(t, draft, s.Draft)
	require.Len(t, effects, 1)
	note, ok := effects[0].(Notify)
	require.True(t, ok)
	assert.Equal(t, Failure, note.Level)
	assert.Contains(t, note.Message, "Failed to update transaction")
}

func TestSaveResult_EmptyEchoIsFailure(t *testing.T) {
	s, _ := Transition(State{}, StartEdit{Tx: sample("1")})
	s, _ = Transition(s, SubmitSave{})
	s, effects := Transition(s, SaveResult{Session: s.Session})

	assert.Equal(t, Editing, s.Phase)
	require.Len(t, effects, 1)
}

func TestSaveResult_StaleSuccessStillApplies(t *testing.T) {
	s, _ := Transition(State{}, StartEdit{Tx: sample("A")})
	s, _ = Transition(s, SubmitSave{})
	staleSession := s.Session

	s, _ = Transition(s, StartEdit{Tx: sample("B")})
	before := s

	echo := sample("A")
	s, effects := Transition(s, SaveResult{Session: staleSession, Record: &echo})

	assert.Equal(t, before, s, "active session for B is untouched")
	assert.Equal(t, []Effect{ApplyRecord{Record: echo}}, effects)
}

func TestSaveResult_StaleFailureIgnored(t *testing.T) {
	s, _ := Transition(State{}, StartEdit{Tx: sample("A")})
	s, _ = Transition(s, SubmitSave{})
	stale := s.Session
	s, _ = Transition(s, Cancel{})

	s, effects := Transition(s, SaveResult{Session: stale, Err: errors.New("boom")})
	assert.Equal(t, Idle, s.Phase)
	assert.Empty(t, effects)
}

func TestDeleteFlow(t *testing.T) {
	s, _ := Transition(State{}, StartEdit{Tx: sample("1")})

	s, effects := Transition(s, SubmitDelete{})
	assert.Equal(t, ConfirmingDelete, s.Phase)
	assert.Equal(t, []Effect{AskConfirm{ID: "1", Prompt: MsgConfirmDelete}}, effects)

	declined, effects := Transition(s, ConfirmDelete{Confirmed: false})
	assert.Equal(t, Editing, declined.Phase)
	assert.Empty(t, effects)

	s, effects = Transition(s, ConfirmDelete{Confirmed: true})
	assert.Equal(t, Deleting, s.Phase)
	assert.Equal(t, []Effect{SendDelete{ID: "1", Session: s.Session}}, effects)

	s, effects = Transition(s, DeleteResult{Session: s.Session, ID: "1"})
	assert.Equal(t, Idle, s.Phase)
	assert.Equal(t, []Effect{
		RemoveRecord{ID: "1"},
		Notify{Level: Success, Message: MsgDeleted},
	}, effects)
}

func TestDeleteResult_Failure(t *testing.T) {
	s, _ := Transition(State{}, StartEdit{Tx: sample("1")})
	s, _ = Transition(s, SubmitDelete{})
	s, _ = Transition(s, ConfirmDelete{Confirmed: true})

	s, effects := Transition(s, DeleteResult{Session: s.Session, ID: "1", Err: &common.TransportError{Op: "delete", Err: errors.New("reset")}})

	assert.Equal(t, Editing, s.Phase)
	assert.Equal(t, []Effect{Notify{Level: Failure, Message: "Network error while trying to delete transaction."}}, effects)
}

func TestDeleteResult_StaleClosesOnlyMatchingSession(t *testing.T) {
	s, _ := Transition(State{}, StartEdit{Tx: sample("A")})
	s, _ = Transition(s, SubmitDelete{})
	s, _ = Transition(s, ConfirmDelete{Confirmed: true})
	stale := s.Session

	other, _ := Transition(s, StartEdit{Tx: sample("B")})
	after, effects := Transition(other, DeleteResult{Session: stale, ID: "A"})
	assert.Equal(t, other, after)
	assert.Equal(t, []Effect{RemoveRecord{ID: "A"}}, effects)

	reopened, _ := Transition(other, StartEdit{Tx: sample("A")})
	after, _ = Transition(reopened, DeleteResult{Session: stale, ID: "A"})
	assert.Equal(t, Idle, after.Phase, "a session on a deleted record is closed")
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "confirming-delete", ConfirmingDelete.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
