// Package store holds the client's copy of the transaction list.
//
// A Store is owned by a single goroutine (the UI event loop or a CLI command)
// and is not safe for concurrent use. After the initial Load its only writers
// are ApplyUpdate and RemoveByID, both driven by server-confirmed mutations.
package store

import (
	"log/slog"

	"github.com/Veraticus/cardspend/internal/model"
)

// Store is an ordered, ID-unique collection of transactions.
type Store struct {
	index    map[model.ID]int
	records  []model.Transaction
	revision uint64
	loaded   bool
}

// New creates an empty store.
func New() *Store {
	return &Store{index: make(map[model.ID]int)}
}

// Load replaces the contents wholesale. The slice is copied. When a payload
// repeats an ID the last occurrence wins and keeps the first one's position.
func (s *Store) Load(records []model.Transaction) {
	s.records = make([]model.Transaction, 0, len(records))
	s.index = make(map[model.ID]int, len(records))

	for _, rec := range records {
		if i, ok := s.index[rec.ID]; ok {
			slog.Warn("Duplicate transaction id in payload, keeping last", "id", rec.ID)
			s.records[i] = rec
			continue
		}
		s.index[rec.ID] = len(s.records)
		s.records = append(s.records, rec)
	}

	s.loaded = true
	s.revision++
}

// ApplyUpdate replaces the record with the same ID. It reports false and
// leaves the store untouched when no such record exists.
func (s *Store) ApplyUpdate(record model.Transaction) bool {
	i, ok := s.index[record.ID]
	if !ok {
		return false
	}
	s.records[i] = record
	s.revision++
	return true
}

// RemoveByID drops the record with the given ID, preserving the order of the
// rest. It reports whether anything was removed.
func (s *Store) RemoveByID(id model.ID) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}

	s.records = append(s.records[:i], s.records[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].ID] = j
	}
	s.revision++
	return true
}

// All returns a copy of every record in load order.
func (s *Store) All() []model.Transaction {
	out := make([]model.Transaction, len(s.records))
	copy(out, s.records)
	return out
}

// Get looks up a record by ID.
func (s *Store) Get(id model.ID) (model.Transaction, bool) {
	i, ok := s.index[id]
	if !ok {
		return model.Transaction{}, false
	}
	return s.records[i], true
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Loaded reports whether a bulk fetch has populated the store at least once.
func (s *Store) Loaded() bool {
	return s.loaded
}

// Revision increases on every successful write. Derived views compare it to
// decide whether to recompute.
func (s *Store) Revision() uint64 {
	return s.revision
}
