// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/cardspend/internal/model"
)

// TransactionService is the remote service that owns transaction records.
// The client never invents or merges records: whatever the service echoes
// back is the record.
type TransactionService interface {
	// Read operations
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	ListPeople(ctx context.Context) ([]model.Person, error)
	SummaryByCard(ctx context.Context) (model.SummaryByCard, error)

	// Mutations. UpdateTransaction replaces the whole record and returns the
	// server's echo of it.
	CreateTransaction(ctx context.Context, record model.Transaction) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, id model.ID, record model.Transaction) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id model.ID) error
}

// Mutations is the subset of TransactionService the edit workflow talks to.
type Mutations interface {
	UpdateTransaction(ctx context.Context, id model.ID, record model.Transaction) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id model.ID) error
}

// PreferenceStore persists small opaque blobs of local client state.
// Get returns common.ErrNotFound when nothing is stored under key.
type PreferenceStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for a missing key.
	Delete(ctx context.Context, key string) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryOptions returns the retry policy used for read-only requests.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
}
