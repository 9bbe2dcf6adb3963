package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/service"
)

// FakeService is an in-memory service.TransactionService. Each *Err field,
// when set, is returned by the matching call instead of doing the work.
// It is safe for concurrent use so commands may call it from goroutines.
type FakeService struct {
	ListErr    error
	PeopleErr  error
	SummaryErr error
	CreateErr  error
	UpdateErr  error
	DeleteErr  error

	// Echo rewrites the record returned by UpdateTransaction, the way a
	// server may normalize fields it stores.
	Echo func(model.Transaction) model.Transaction

	People  []model.Person
	Summary model.SummaryByCard

	mu      sync.Mutex
	records []model.Transaction
	nextID  int
	calls   []string
}

var _ service.TransactionService = (*FakeService)(nil)

// NewFakeService creates a service holding records.
func NewFakeService(records ...model.Transaction) *FakeService {
	f := &FakeService{nextID: 1000}
	f.records = append(f.records, records...)
	return f
}

// Calls returns the names of the methods invoked so far, in order.
func (f *FakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Records returns a copy of the stored records.
func (f *FakeService) Records() []model.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Transaction(nil), f.records...)
}

func (f *FakeService) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

// ListTransactions implements service.TransactionService.
func (f *FakeService) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	f.record("ListTransactions")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Records(), ctx.Err()
}

// ListPeople implements service.TransactionService.
func (f *FakeService) ListPeople(_ context.Context) ([]model.Person, error) {
	f.record("ListPeople")
	if f.PeopleErr != nil {
		return nil, f.PeopleErr
	}
	return f.People, nil
}

// SummaryByCard implements service.TransactionService.
func (f *FakeService) SummaryByCard(_ context.Context) (model.SummaryByCard, error) {
	f.record("SummaryByCard")
	if f.SummaryErr != nil {
		return nil, f.SummaryErr
	}
	return f.Summary, nil
}

// CreateTransaction implements service.TransactionService.
func (f *FakeService) CreateTransaction(_ context.Context, record model.Transaction) (*model.Transaction, error) {
	f.record("CreateTransaction")
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	record.ID = model.ID(fmt.Sprint(f.nextID))
	f.records = append(f.records, record)
	return &record, nil
}

// UpdateTransaction implements service.TransactionService.
func (f *FakeService) UpdateTransaction(ctx context.Context, id model.ID, record model.Transaction) (*model.Transaction, error) {
	f.record("UpdateTransaction")
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record.ID = id
	if f.Echo != nil {
		record = f.Echo(record)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i] = record
		}
	}
	return &record, nil
}

// DeleteTransaction implements service.TransactionService.
func (f *FakeService) DeleteTransaction(_ context.Context, id model.ID) error {
	f.record("DeleteTransaction")
	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.records[:0]
	for _, r := range f.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return nil
}
