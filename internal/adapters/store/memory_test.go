package store

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/core"
)

func TestMemoryBulkInsertAssignsIdentity(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	ids, err := s.BulkInsert(ctx, []core.TrainingItem{
		trainingItem("a@example.com", "one", core.DifficultyEasy, true),
	})
	if err != nil {
		t.Fatalf("BulkInsert failed: %v", err)
	}
	if len(ids) != 1 || ids[0] == "" {
		t.Fatalf("ids = %v, want one generated id", ids)
	}

	items, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(items) != 1 || items[0].CreatedAt.IsZero() {
		t.Fatalf("stored item missing creation time: %+v", items)
	}
}

func TestMemoryBulkInsertSkipsDuplicateKey(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	if _, err := s.BulkInsert(ctx, []core.TrainingItem{
		trainingItem("a@example.com", "one", core.DifficultyEasy, true),
	}); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	ids, err := s.BulkInsert(ctx, []core.TrainingItem{
		trainingItem("a@example.com", "one", core.DifficultyMedium, false),
		trainingItem("b@example.com", "two", core.DifficultyMedium, true),
	})
	if err != nil {
		t.Fatalf("second insert failed: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("inserted %d rows, want 1 (duplicate skipped)", len(ids))
	}

	items, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	for _, item := range items {
		if item.SenderEmail == "a@example.com" && !item.IsPhish {
			t.Error("duplicate insert overwrote the original row")
		}
	}
}

func TestMemoryFindExistingKeys(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	if _, err := s.BulkInsert(ctx, []core.TrainingItem{
		trainingItem("a@example.com", "one", core.DifficultyEasy, true),
		trainingItem("a@example.com", "two", core.DifficultyEasy, true),
	}); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	existing, err := s.FindExistingKeys(ctx,
		[]string{"a@example.com", "ghost@example.com"},
		map[string][]string{
			"a@example.com":     {"two", "missing"},
			"ghost@example.com": {"two"},
		})
	if err != nil {
		t.Fatalf("FindExistingKeys failed: %v", err)
	}
	want := core.IdentityKey{SenderEmail: "a@example.com", Subject: "two"}
	if len(existing) != 1 {
		t.Fatalf("found %d keys, want 1: %v", len(existing), existing)
	}
	if _, ok := existing[want]; !ok {
		t.Fatalf("missing key %v in %v", want, existing)
	}
}

func TestMemoryCounts(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	if _, err := s.BulkInsert(ctx, []core.TrainingItem{
		trainingItem("a@example.com", "one", core.DifficultyEasy, true),
		trainingItem("b@example.com", "two", core.DifficultyMedium, false),
		trainingItem("c@example.com", "three", core.DifficultyMedium, false),
	}); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	byTier, err := s.CountsByDifficulty(ctx)
	if err != nil {
		t.Fatalf("CountsByDifficulty failed: %v", err)
	}
	if byTier[core.DifficultyEasy] != 1 || byTier[core.DifficultyMedium] != 2 {
		t.Fatalf("difficulty counts = %v", byTier)
	}

	byVeracity, err := s.CountsByVeracity(ctx)
	if err != nil {
		t.Fatalf("CountsByVeracity failed: %v", err)
	}
	if byVeracity[true] != 1 || byVeracity[false] != 2 {
		t.Fatalf("veracity counts = %v", byVeracity)
	}
}
