// Package memory keeps contacts in process memory. Used for tests and
// STORE_DRIVER=memory.
package memory

import (
	"context"
	"sync"

	"phonebook/internal/store"
)

type Store struct {
	mu   sync.RWMutex
	rows []store.Contact
}

func New() *Store { return &Store{} }

func (s *Store) InsertContact(ctx context.Context, in store.ContactInsert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.rows = append(s.rows, in.Row())
	s.mu.Unlock()
	return nil
}

// ListContacts returns a copy; later inserts are not visible through it.
func (s *Store) ListContacts(ctx context.Context) ([]store.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Contact, len(s.rows))
	for i, r := range s.rows {
		r.ProfileImage = store.CloneString(r.ProfileImage)
		out[i] = r
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }
