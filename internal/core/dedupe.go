package core

import (
	"context"

	"go.uber.org/zap"
)

// Dedupe filters items whose identity key is already present in existing.
// Order is preserved, and duplicates within the batch itself collapse to
// their first occurrence. Zero survivors is a normal outcome, not an error.
func Dedupe(items []TrainingItem, existing map[IdentityKey]struct{}) (fresh []TrainingItem, skipped int) {
	seen := make(map[IdentityKey]struct{}, len(existing)+len(items))
	for k := range existing {
		seen[k] = struct{}{}
	}

	for _, item := range items {
		key := item.Key()
		if _, dup := seen[key]; dup {
			skipped++
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, item)
	}
	return fresh, skipped
}

// DeduplicationGate filters a validated batch against the persisted identity
// keys. The existing-key set is derived from the store on every call, never
// cached across requests.
type DeduplicationGate struct {
	repo   ContentRepository
	logger *zap.Logger
}

// NewDeduplicationGate creates a gate over the given repository.
func NewDeduplicationGate(repo ContentRepository, logger *zap.Logger) *DeduplicationGate {
	return &DeduplicationGate{repo: repo, logger: logger}
}

// Filter drops batch items whose (senderEmail, subject) key is already
// persisted. Lookups are grouped by distinct sender so the store sees one
// bounded query set per batch regardless of candidate count.
func (g *DeduplicationGate) Filter(ctx context.Context, items []TrainingItem) ([]TrainingItem, int, error) {
	if len(items) == 0 {
		return nil, 0, nil
	}

	subjectsBySender := make(map[string][]string)
	var senders []string
	for _, item := range items {
		if _, ok := subjectsBySender[item.SenderEmail]; !ok {
			senders = append(senders, item.SenderEmail)
		}
		subjectsBySender[item.SenderEmail] = append(subjectsBySender[item.SenderEmail], item.Subject)
	}

	existing, err := g.repo.FindExistingKeys(ctx, senders, subjectsBySender)
	if err != nil {
		return nil, 0, &StorageError{Op: "find existing keys", Err: err}
	}

	fresh, skipped := Dedupe(items, existing)
	if skipped > 0 {
		g.logger.Debug("Dropped duplicate candidates",
			zap.Int("skipped", skipped),
			zap.Int("fresh", len(fresh)))
	}
	return fresh, skipped, nil
}
