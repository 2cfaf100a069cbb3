package memory

import (
	"context"
	"sync"

	"github.com/amushan/portal-storefront/internal/domains/session/ports"
)

var _ ports.StateStore = (*StateStore)(nil)

type record struct {
	lastOrderID     string
	profileComplete bool
}

// StateStore is an in-memory session state implementation.
type StateStore struct {
	mu      sync.RWMutex
	records map[string]record
}

func NewStateStore() *StateStore {
	return &StateStore{records: map[string]record{}}
}

func (s *StateStore) SetLastOrder(_ context.Context, sessionKey, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.records[sessionKey]
	rec.lastOrderID = orderID
	s.records[sessionKey] = rec
	return nil
}

func (s *StateStore) LastOrder(_ context.Context, sessionKey string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[sessionKey]
	if !ok || rec.lastOrderID == "" {
		return "", ports.ErrNotFound
	}
	return rec.lastOrderID, nil
}

func (s *StateStore) SetProfileComplete(_ context.Context, sessionKey string, complete bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.records[sessionKey]
	rec.profileComplete = complete
	s.records[sessionKey] = rec
	return nil
}

func (s *StateStore) ProfileComplete(_ context.Context, sessionKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[sessionKey].profileComplete, nil
}
