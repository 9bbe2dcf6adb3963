package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/cardspend/internal/common"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/", WithRetry(fastRetry))
	require.NoError(t, err)
	return c
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	_, err := NewClient("ftp://example.com")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	_, err = NewClient("://nope")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestListTransactions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		_, _ = io.WriteString(w, `[
			{"id": 1, "date": "2024-01-02", "card": "Amex", "amount": 10, "who": "me", "category": "Food", "merchant": "Cafe", "cashback_rate": 0.03, "paid": false},
			{"id": 2, "date": "01/01/2024", "card": "Visa", "amount": -5.25, "who": "mom", "category": "", "merchant": "", "paid": true}
		]`)
	})

	txs, err := c.ListTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, model.ID("1"), txs[0].ID)
	assert.True(t, txs[0].HasCashbackRate())
	assert.Equal(t, model.ID("2"), txs[1].ID)
	assert.False(t, txs[1].HasCashbackRate())
	assert.Equal(t, "", txs[1].Notes)
	assert.True(t, decimal.RequireFromString("-5.25").Equal(txs[1].Amount))
}

func TestListTransactions_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	})

	txs, err := c.ListTransactions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.Equal(t, int32(3), calls.Load())
}

func TestListTransactions_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"oops": `)
	})

	_, err := c.ListTransactions(context.Background())
	assert.ErrorIs(t, err, common.ErrTransport)
}

func TestListPeople(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/people", r.URL.Path)
		_, _ = io.WriteString(w, `[{"name":"me"},{"name":"mom"}]`)
	})

	people, err := c.ListPeople(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"me", "mom"}, model.Names(people))
}

func TestSummaryByCard(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/summary/by-card", r.URL.Path)
		_, _ = io.WriteString(w, `{"Amex": {"total": 100.5, "paid": 40, "unpaid": 60.5, "cashback_earned": 1.2, "cashback_pending": 1.82,
			"per_person": {"me": {"total": 100.5, "paid": 40, "owes": 60.5, "cashback_earned": 1.2, "cashback_pending": 1.82}}}}`)
	})

	summary, err := c.SummaryByCard(context.Background())
	require.NoError(t, err)
	require.Contains(t, summary, "Amex")
	assert.True(t, decimal.RequireFromString("60.5").Equal(summary["Amex"].Unpaid))
	assert.Equal(t, []string{"me"}, summary["Amex"].People())
}

func TestUpdateTransaction(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/transactions/7", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"id": 7, "date": "2024-03-05", "card": "Amex", "amount": 12.5, "who": "me", "category": "", "merchant": "Server Name", "notes": "", "cashback_rate": 0.03, "paid": true}`)
	})

	rec := model.Transaction{
		ID:           "7",
		Date:         "2024-03-05",
		Card:         "Amex",
		Who:          "me",
		Merchant:     "shop",
		Amount:       decimal.RequireFromString("12.50"),
		CashbackRate: decimal.NewNullDecimal(decimal.RequireFromString("0.03")),
		Paid:         true,
	}
	echo, err := c.UpdateTransaction(context.Background(), "7", rec)
	require.NoError(t, err)

	assert.Equal(t, "Server Name", echo.Merchant)
	assert.Equal(t, model.ID("7"), echo.ID)

	assert.NotContains(t, got, "id")
	assert.InDelta(t, 12.5, got["amount"], 1e-9)
	assert.InDelta(t, 0.03, got["cashback_rate"], 1e-9)
	assert.Equal(t, true, got["paid"])
	assert.Equal(t, "", got["notes"])
}

func TestUpdateTransaction_OmitsUntrackedRate(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"id": 1, "card": "Amex", "amount": 1}`)
	})

	_, err := c.UpdateTransaction(context.Background(), "1", model.Transaction{Card: "Amex", Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.NotContains(t, got, "cashback_rate")
}

func TestUpdateTransaction_RequestError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Transaction not found"}`)
	})

	_, err := c.UpdateTransaction(context.Background(), "9", model.Transaction{Card: "Amex"})
	require.Error(t, err)

	var reqErr *common.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.Equal(t, "Transaction not found", reqErr.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestUpdateTransaction_ServerErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.UpdateTransaction(context.Background(), "1", model.Transaction{Card: "Amex"})
	assert.ErrorIs(t, err, common.ErrRequest)
	assert.Equal(t, int32(1), calls.Load(), "mutations are never retried")
}

func TestUpdateTransaction_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	// Registered after the server's Close so it runs first.
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.UpdateTransaction(ctx, "1", model.Transaction{Card: "Amex"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "Timed out while trying to update transaction.", common.UserMessage("update transaction", err))
}

func TestCreateTransaction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transactions", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"id": 42, "date": "2024-01-01", "card": "Amex", "amount": 3, "who": "dad", "cashback_rate": 0.01, "paid": false}`)
	})

	created, err := c.CreateTransaction(context.Background(), model.Transaction{Card: "Amex", Amount: decimal.NewFromInt(3), Who: "dad"})
	require.NoError(t, err)
	assert.Equal(t, model.ID("42"), created.ID)
}

func TestDeleteTransaction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/transactions/3", r.URL.Path)
		_, _ = io.WriteString(w, `{"status":"deleted","id":3}`)
	})

	require.NoError(t, c.DeleteTransaction(context.Background(), "3"))
}

func TestDeleteTransaction_NoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteTransaction(context.Background(), "3"))
}

func TestDeleteTransaction_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	srv.Close()

	err = c.DeleteTransaction(context.Background(), "3")
	assert.ErrorIs(t, err, common.ErrTransport)
}
