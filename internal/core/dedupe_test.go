package core_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/core"
)

func item(sender, subject string) core.TrainingItem {
	return core.TrainingItem{
		Subject:     subject,
		SenderName:  "Sender",
		SenderEmail: sender,
		BodyMarkup:  "<p>body</p>",
		Explanation: "explanation",
		Difficulty:  core.DifficultyEasy,
		Features:    []string{"feature"},
	}
}

func keysOf(items ...core.TrainingItem) map[core.IdentityKey]struct{} {
	keys := make(map[core.IdentityKey]struct{})
	for _, it := range items {
		keys[it.Key()] = struct{}{}
	}
	return keys
}

func TestDedupeEmptyExistingKeepsAll(t *testing.T) {
	batch := []core.TrainingItem{
		item("a@example.com", "one"),
		item("a@example.com", "two"),
		item("b@example.com", "one"),
	}
	fresh, skipped := core.Dedupe(batch, nil)
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	if len(fresh) != len(batch) {
		t.Fatalf("fresh = %d items, want %d", len(fresh), len(batch))
	}
	for i := range batch {
		if fresh[i].Key() != batch[i].Key() {
			t.Fatalf("order not preserved at %d", i)
		}
	}
}

func TestDedupeSupersetDropsAll(t *testing.T) {
	batch := []core.TrainingItem{
		item("a@example.com", "one"),
		item("b@example.com", "two"),
	}
	existing := keysOf(batch...)
	existing[core.IdentityKey{SenderEmail: "c@example.com", Subject: "extra"}] = struct{}{}

	fresh, skipped := core.Dedupe(batch, existing)
	if len(fresh) != 0 {
		t.Fatalf("expected no survivors, got %d", len(fresh))
	}
	if skipped != len(batch) {
		t.Fatalf("skipped = %d, want %d", skipped, len(batch))
	}
}

func TestDedupeCollapsesInBatchDuplicates(t *testing.T) {
	batch := []core.TrainingItem{
		item("a@example.com", "one"),
		item("a@example.com", "one"),
	}
	fresh, skipped := core.Dedupe(batch, nil)
	if len(fresh) != 1 || skipped != 1 {
		t.Fatalf("got %d fresh, %d skipped; want 1 and 1", len(fresh), skipped)
	}
}

// fakeRepo records the shape of the key lookup the gate issues.
type fakeRepo struct {
	existing     map[core.IdentityKey]struct{}
	queried      []string
	subjectsSeen map[string][]string
}

func (r *fakeRepo) FindExistingKeys(_ context.Context, senders []string, subjectsBySender map[string][]string) (map[core.IdentityKey]struct{}, error) {
	r.queried = senders
	r.subjectsSeen = subjectsBySender
	return r.existing, nil
}

func (r *fakeRepo) BulkInsert(_ context.Context, items []core.TrainingItem) ([]string, error) {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].Subject
	}
	return ids, nil
}

func (r *fakeRepo) CountsByDifficulty(context.Context) (map[core.Difficulty]int, error) {
	return map[core.Difficulty]int{}, nil
}

func (r *fakeRepo) CountsByVeracity(context.Context) (map[bool]int, error) {
	return map[bool]int{}, nil
}

func TestGateGroupsLookupsBySender(t *testing.T) {
	repo := &fakeRepo{existing: keysOf(item("a@example.com", "one"))}
	gate := core.NewDeduplicationGate(repo, zap.NewNop())

	batch := []core.TrainingItem{
		item("a@example.com", "one"),
		item("a@example.com", "two"),
		item("a@example.com", "three"),
		item("b@example.com", "one"),
	}

	fresh, skipped, err := gate.Filter(context.Background(), batch)
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(fresh) != 3 || skipped != 1 {
		t.Fatalf("got %d fresh, %d skipped; want 3 and 1", len(fresh), skipped)
	}

	if len(repo.queried) != 2 {
		t.Fatalf("expected 2 distinct senders in lookup, got %v", repo.queried)
	}
	if got := repo.subjectsSeen["a@example.com"]; len(got) != 3 {
		t.Fatalf("expected 3 subjects for a@example.com, got %v", got)
	}
}
