package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for tests and single-node development.
// It holds records by value, so callers can mutate what Get returned without
// affecting the stored copy.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	byUser  map[uuid.UUID]map[string]struct{}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
		byUser:  make(map[uuid.UUID]map[string]struct{}),
	}
}

// Create implements Store.
func (s *MemoryStore) Create(_ context.Context, rec Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for range maxIDAttempts {
		id, err := newID()
		if err != nil {
			return "", err
		}
		if _, taken := s.records[id]; taken {
			continue
		}

		rec.ID = id
		s.records[id] = rec
		if rec.Identity != nil {
			ids, ok := s.byUser[rec.Identity.UserID]
			if !ok {
				ids = make(map[string]struct{})
				s.byUser[rec.Identity.UserID] = ids
			}
			ids[id] = struct{}{}
		}
		return id, nil
	}
	return "", ErrIDGeneration
}

// Get implements Store. Expired records are removed lazily.
func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	if !time.Now().Before(rec.ExpiresAt) {
		s.remove(id)
		return nil, nil
	}
	return &rec, nil
}

// Touch implements Store.
func (s *MemoryStore) Touch(_ context.Context, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok || !time.Now().Before(rec.ExpiresAt) {
		return false, nil
	}
	rec.LastSeenAt = at
	s.records[id] = rec
	return true, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	s.remove(id)
	return true, nil
}

// DeleteAllForUser implements Store.
func (s *MemoryStore) DeleteAllForUser(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.byUser[userID]
	n := len(ids)
	for id := range ids {
		delete(s.records, id)
	}
	delete(s.byUser, userID)
	return n, nil
}

// Exists implements Store.
func (s *MemoryStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	return ok && time.Now().Before(rec.ExpiresAt), nil
}

// Len returns the number of stored records, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Cleanup removes all expired records and returns how many were dropped.
func (s *MemoryStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var n int
	for id, rec := range s.records {
		if !now.Before(rec.ExpiresAt) {
			s.remove(id)
			n++
		}
	}
	return n
}

// StartJanitor runs Cleanup on the given interval until ctx is done.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

// remove drops a record and its user index entry. Callers hold the lock.
func (s *MemoryStore) remove(id string) {
	rec, ok := s.records[id]
	if !ok {
		return
	}
	delete(s.records, id)
	if rec.Identity == nil {
		return
	}
	ids := s.byUser[rec.Identity.UserID]
	delete(ids, id)
	if len(ids) == 0 {
		delete(s.byUser, rec.Identity.UserID)
	}
}
