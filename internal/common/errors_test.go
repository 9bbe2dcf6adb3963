package common

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/cardspend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err    error
		name   string
		action string
		want   string
	}{
		{
			name:   "nil error",
			action: "update transaction",
			err:    nil,
			want:   "",
		},
		{
			name:   "amount validation",
			action: "update transaction",
			err:    &ValidationError{Field: "amount", Value: "abc", Reason: "not a number"},
			want:   "Amount must be a number.",
		},
		{
			name:   "other validation",
			action: "add transaction",
			err:    &ValidationError{Field: "card", Reason: "required"},
			want:   "Invalid card: required.",
		},
		{
			name:   "request error with body",
			action: "update transaction",
			err:    fmt.Errorf("wrapped: %w", &RequestError{Op: "update", StatusCode: 422, Body: "bad amount\n"}),
			want:   "Failed to update transaction (HTTP 422). bad amount",
		},
		{
			name:   "request error without body",
			action: "delete transaction",
			err:    &RequestError{Op: "delete", StatusCode: 404},
			want:   "Failed to delete transaction (HTTP 404).",
		},
		{
			name:   "timeout",
			action: "delete transaction",
			err:    &TransportError{Op: "delete", Err: context.DeadlineExceeded},
			want:   "Timed out while trying to delete transaction.",
		},
		{
			name:   "network failure",
			action: "update transaction",
			err:    &TransportError{Op: "update", Err: errors.New("connection refused")},
			want:   "Network error while trying to update transaction.",
		},
		{
			name:   "user error wins",
			action: "update transaction",
			err:    NewUserError("Pick a card first.", ErrValidation),
			want:   "Pick a card first.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.action, tt.err))
		})
	}
}

func TestUserMessage_TruncatesLongBodies(t *testing.T) {
	err := &RequestError{Op: "update", StatusCode: 500, Body: strings.Repeat("x", 500)}
	msg := UserMessage("update transaction", err)
	assert.True(t, strings.HasSuffix(msg, "..."))
	assert.Less(t, len(msg), 200)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short", in: "boom", n: 10, want: "boom"},
		{name: "ascii", in: "abcdefghij", n: 8, want: "abcde..."},
		{name: "multibyte", in: strings.Repeat("É", 22), n: 17, want: strings.Repeat("É", 14) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestErrorClasses(t *testing.T) {
	assert.ErrorIs(t, &ValidationError{Field: "amount"}, ErrValidation)
	assert.ErrorIs(t, &RequestError{StatusCode: 400}, ErrRequest)
	assert.ErrorIs(t, &TransportError{Err: errors.New("boom")}, ErrTransport)
	assert.NotErrorIs(t, &RequestError{StatusCode: 400}, ErrTransport)

	inner := errors.New("dial tcp")
	assert.ErrorIs(t, &TransportError{Err: inner}, inner)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&RequestError{StatusCode: 503}))
	assert.False(t, IsRetryable(&RequestError{StatusCode: 404}))
	assert.True(t, IsRetryable(&TransportError{Err: errors.New("reset")}))
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.False(t, IsRetryable(&ValidationError{Field: "amount"}))
	assert.False(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: false}))
}

func TestWithRetry(t *testing.T) {
	fast := service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return &TransportError{Op: "list", Err: errors.New("reset")}
			}
			return nil
		}, fast)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return &RequestError{Op: "list", StatusCode: 400}
		}, fast)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.ErrorIs(t, err, ErrRequest)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return &RequestError{Op: "list", StatusCode: 502}
		}, fast)
		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorIs(t, err, ErrRequest)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		slow := fast
		slow.InitialDelay = time.Hour
		slow.MaxDelay = time.Hour
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			cancel()
			return &TransportError{Op: "list", Err: errors.New("reset")}
		}, slow)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
