// internal/nis2/store.go
package nis2

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory notification store keyed by incident ID
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]*Notification
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]*Notification)}
}

// Get looks up a notification by incident ID
func (s *MemoryStore) Get(ctx context.Context, incidentID string) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.byID[incidentID]
	if !ok {
		return nil, ErrNotificationNotFound
	}
	return n, nil
}

// Put stores or replaces a notification
func (s *MemoryStore) Put(ctx context.Context, n *Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[n.IncidentID] = n
	return nil
}
