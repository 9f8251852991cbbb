package store

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/core"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func trainingItem(sender, subject string, difficulty core.Difficulty, isPhish bool) core.TrainingItem {
	return core.TrainingItem{
		Subject:     subject,
		SenderName:  "Sender",
		SenderEmail: sender,
		BodyMarkup:  "<p>body</p>",
		IsPhish:     isPhish,
		Explanation: "explanation",
		Features:    []string{"Urgent or deadline-driven language"},
		Difficulty:  difficulty,
	}
}

func TestSQLiteBulkInsertAndReadBack(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	batch := []core.TrainingItem{
		trainingItem("a@example.com", "one", core.DifficultyEasy, true),
		trainingItem("b@example.com", "two", core.DifficultyHard, false),
	}
	ids, err := s.BulkInsert(ctx, batch)
	if err != nil {
		t.Fatalf("BulkInsert failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("inserted %d rows, want 2", len(ids))
	}

	items, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("read back %d rows, want 2", len(items))
	}
	for _, item := range items {
		if item.ID == "" {
			t.Error("persisted item has no ID")
		}
		if item.CreatedAt.IsZero() {
			t.Error("persisted item has no creation time")
		}
		if len(item.Features) != 1 {
			t.Errorf("features round-trip lost data: %v", item.Features)
		}
	}
}

func TestSQLiteFindExistingKeysRestrictsBySubject(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	seed := []core.TrainingItem{
		trainingItem("a@example.com", "one", core.DifficultyEasy, true),
		trainingItem("a@example.com", "two", core.DifficultyEasy, true),
		trainingItem("b@example.com", "three", core.DifficultyEasy, true),
	}
	if _, err := s.BulkInsert(ctx, seed); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	existing, err := s.FindExistingKeys(ctx,
		[]string{"a@example.com"},
		map[string][]string{"a@example.com": {"one", "missing"}})
	if err != nil {
		t.Fatalf("FindExistingKeys failed: %v", err)
	}
	if len(existing) != 1 {
		t.Fatalf("found %d keys, want 1: %v", len(existing), existing)
	}
	if _, ok := existing[core.IdentityKey{SenderEmail: "a@example.com", Subject: "one"}]; !ok {
		t.Fatalf("expected key for a@example.com/one, got %v", existing)
	}
}

func TestSQLiteBulkInsertSkipsDuplicateKey(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	first := []core.TrainingItem{trainingItem("a@example.com", "one", core.DifficultyEasy, true)}
	if _, err := s.BulkInsert(ctx, first); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	second := []core.TrainingItem{
		trainingItem("a@example.com", "one", core.DifficultyMedium, false),
		trainingItem("c@example.com", "fresh", core.DifficultyMedium, true),
	}
	ids, err := s.BulkInsert(ctx, second)
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
	if len(items) != 2 {
		t.Fatalf("store holds %d rows, want 2", len(items))
	}
	// The colliding row must keep its original content.
	for _, item := range items {
		if item.SenderEmail == "a@example.com" && !item.IsPhish {
			t.Error("duplicate insert overwrote the original row")
		}
	}
}

func TestSQLiteCounts(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	seed := []core.TrainingItem{
		trainingItem("a@example.com", "one", core.DifficultyEasy, true),
		trainingItem("b@example.com", "two", core.DifficultyEasy, true),
		trainingItem("c@example.com", "three", core.DifficultyHard, false),
	}
	if _, err := s.BulkInsert(ctx, seed); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	byTier, err := s.CountsByDifficulty(ctx)
	if err != nil {
		t.Fatalf("CountsByDifficulty failed: %v", err)
	}
	if byTier[core.DifficultyEasy] != 2 || byTier[core.DifficultyHard] != 1 {
		t.Fatalf("difficulty counts = %v", byTier)
	}

	byVeracity, err := s.CountsByVeracity(ctx)
	if err != nil {
		t.Fatalf("CountsByVeracity failed: %v", err)
	}
	if byVeracity[true] != 2 || byVeracity[false] != 1 {
		t.Fatalf("veracity counts = %v", byVeracity)
	}
}
