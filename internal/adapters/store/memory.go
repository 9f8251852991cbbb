// Package store implements the ContentRepository port over memory, SQLite
// and MySQL backends.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/core"
)

// MemoryStore is an in-memory implementation of the ContentRepository
// interface. It is the default backend for fresh installs and tests.
type MemoryStore struct {
	items  map[core.IdentityKey]core.TrainingItem
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		items:  make(map[core.IdentityKey]core.TrainingItem),
		logger: logger,
	}
}

// FindExistingKeys returns the persisted identity keys for the given senders,
// restricted to the listed subjects per sender.
func (s *MemoryStore) FindExistingKeys(_ context.Context, senders []string, subjectsBySender map[string][]string) (map[core.IdentityKey]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	existing := make(map[core.IdentityKey]struct{})
	for _, sender := range senders {
		for _, subject := range subjectsBySender[sender] {
			key := core.IdentityKey{SenderEmail: sender, Subject: subject}
			if _, ok := s.items[key]; ok {
				existing[key] = struct{}{}
			}
		}
	}
	return existing, nil
}

// BulkInsert persists a batch atomically. Rows colliding with an existing
// identity key are skipped, not errors.
func (s *MemoryStore) BulkInsert(_ context.Context, items []core.TrainingItem) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var inserted []string
	for _, item := range items {
		key := item.Key()
		if _, dup := s.items[key]; dup {
			continue
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}
		s.items[key] = item
		inserted = append(inserted, item.ID)
	}
	return inserted, nil
}

// CountsByDifficulty reports how many items exist per tier
func (s *MemoryStore) CountsByDifficulty(_ context.Context) (map[core.Difficulty]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[core.Difficulty]int)
	for _, item := range s.items {
		counts[item.Difficulty]++
	}
	return counts, nil
}

// CountsByVeracity reports how many phishing vs legitimate items exist
func (s *MemoryStore) CountsByVeracity(_ context.Context) (map[bool]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[bool]int)
	for _, item := range s.items {
		counts[item.IsPhish]++
	}
	return counts, nil
}

// All returns every persisted item. Used by callers that compute a player's
// unseen pool as a set difference.
func (s *MemoryStore) All(_ context.Context) ([]core.TrainingItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]core.TrainingItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	return items, nil
}
