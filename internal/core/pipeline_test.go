package core_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/adapters/generator/static"
	"github.com/phishdrill/phishdrill/internal/adapters/store"
	"github.com/phishdrill/phishdrill/internal/core"
	"github.com/phishdrill/phishdrill/internal/heuristics"
)

// scriptedGenerator returns a fixed batch or a fixed error.
type scriptedGenerator struct {
	items []core.CandidateItem
	err   error
}

func (g *scriptedGenerator) Generate(context.Context, int) ([]core.CandidateItem, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.items, nil
}

func candidate(sender, subject string) core.CandidateItem {
	return core.CandidateItem{
		Subject:     subject,
		SenderName:  "Sender",
		SenderEmail: sender,
		BodyMarkup:  "<p>body</p>",
		Explanation: "explanation",
	}
}

func newPipeline(t *testing.T, generator, fallback core.CandidateGenerator, repo core.ContentRepository) *core.PipelineService {
	t.Helper()
	analyzer := heuristics.NewAnalyzer()
	logger := zap.NewNop()
	return core.NewPipelineService(
		generator,
		fallback,
		core.NewCandidateValidator(analyzer),
		core.NewDeduplicationGate(repo, logger),
		repo,
		logger,
	)
}

func TestRefillInsertsFreshBatch(t *testing.T) {
	repo := store.NewMemoryStore(zap.NewNop())
	gen := &scriptedGenerator{items: []core.CandidateItem{
		candidate("a@example.com", "one"),
		candidate("b@example.com", "two"),
	}}

	report, err := newPipeline(t, gen, nil, repo).Refill(context.Background(), 2)
	if err != nil {
		t.Fatalf("Refill failed: %v", err)
	}
	if report.Inserted != 2 || report.Skipped != 0 || len(report.Errors) != 0 {
		t.Fatalf("report = %+v", report)
	}

	counts, err := repo.CountsByDifficulty(context.Background())
	if err != nil {
		t.Fatalf("CountsByDifficulty failed: %v", err)
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	if total != 2 {
		t.Fatalf("store holds %d items, want 2", total)
	}
}

func TestRefillSkipsPersistedDuplicates(t *testing.T) {
	repo := store.NewMemoryStore(zap.NewNop())

	// Two of the five candidates collide with pre-existing rows.
	seed := []core.TrainingItem{
		item("a@example.com", "one"),
		item("b@example.com", "two"),
	}
	if _, err := repo.BulkInsert(context.Background(), seed); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	gen := &scriptedGenerator{items: []core.CandidateItem{
		candidate("a@example.com", "one"),
		candidate("b@example.com", "two"),
		candidate("c@example.com", "three"),
		candidate("d@example.com", "four"),
		candidate("e@example.com", "five"),
	}}

	report, err := newPipeline(t, gen, nil, repo).Refill(context.Background(), 5)
	if err != nil {
		t.Fatalf("Refill failed: %v", err)
	}
	if report.Inserted != 3 {
		t.Fatalf("inserted = %d, want 3", report.Inserted)
	}
	if report.Skipped != 2 {
		t.Fatalf("skipped = %d, want 2", report.Skipped)
	}
}

func TestRefillAllDuplicatesIsNotAnError(t *testing.T) {
	repo := store.NewMemoryStore(zap.NewNop())
	seed := []core.TrainingItem{item("a@example.com", "one")}
	if _, err := repo.BulkInsert(context.Background(), seed); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	gen := &scriptedGenerator{items: []core.CandidateItem{candidate("a@example.com", "one")}}

	report, err := newPipeline(t, gen, nil, repo).Refill(context.Background(), 1)
	if err != nil {
		t.Fatalf("all-duplicate batch must not fail: %v", err)
	}
	if report.Inserted != 0 || report.Skipped != 1 {
		t.Fatalf("report = %+v", report)
	}
}

func TestRefillFallsBackOnGeneratorFailure(t *testing.T) {
	repo := store.NewMemoryStore(zap.NewNop())
	broken := &scriptedGenerator{err: &core.GenerationError{Provider: "openai", Err: fmt.Errorf("boom")}}

	report, err := newPipeline(t, broken, static.NewGenerator(), repo).Refill(context.Background(), 4)
	if err != nil {
		t.Fatalf("Refill with fallback failed: %v", err)
	}
	if report.Inserted != 4 {
		t.Fatalf("inserted = %d, want 4", report.Inserted)
	}
}

func TestRefillSurfacesGeneratorFailureWithoutFallback(t *testing.T) {
	repo := store.NewMemoryStore(zap.NewNop())
	broken := &scriptedGenerator{err: &core.GenerationError{Provider: "openai", Err: fmt.Errorf("boom")}}

	_, err := newPipeline(t, broken, nil, repo).Refill(context.Background(), 4)
	var genErr *core.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestRefillNoValidCandidates(t *testing.T) {
	repo := store.NewMemoryStore(zap.NewNop())
	gen := &scriptedGenerator{items: []core.CandidateItem{
		{Subject: "", SenderEmail: "bad"},
		{Subject: "x", SenderEmail: "also bad"},
	}}

	report, err := newPipeline(t, gen, nil, repo).Refill(context.Background(), 2)
	if !errors.Is(err, core.ErrNoValidCandidates) {
		t.Fatalf("expected ErrNoValidCandidates, got %v", err)
	}
	if len(report.Errors) != 2 {
		t.Fatalf("expected 2 validation errors, got %d", len(report.Errors))
	}
}

func TestRefillRejectsOutOfRangeBatchSize(t *testing.T) {
	repo := store.NewMemoryStore(zap.NewNop())
	pipeline := newPipeline(t, &scriptedGenerator{}, nil, repo)

	if _, err := pipeline.Refill(context.Background(), 0); err == nil {
		t.Fatal("batch size 0 must be rejected")
	}
	if _, err := pipeline.Refill(context.Background(), core.MaxBatchSize+1); err == nil {
		t.Fatal("oversized batch must be rejected")
	}
}

// racyRepo simulates a concurrent batch winning the insert race: the gate
// sees no existing keys, but the store refuses one row on its uniqueness
// constraint.
type racyRepo struct {
	*store.MemoryStore
}

func (r *racyRepo) FindExistingKeys(context.Context, []string, map[string][]string) (map[core.IdentityKey]struct{}, error) {
	return map[core.IdentityKey]struct{}{}, nil
}

func TestRefillCountsStoreLevelDuplicateAsSkipped(t *testing.T) {
	mem := store.NewMemoryStore(zap.NewNop())
	seed := []core.TrainingItem{item("a@example.com", "one")}
	if _, err := mem.BulkInsert(context.Background(), seed); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	repo := &racyRepo{MemoryStore: mem}
	gen := &scriptedGenerator{items: []core.CandidateItem{
		candidate("a@example.com", "one"),
		candidate("b@example.com", "two"),
	}}

	report, err := newPipeline(t, gen, nil, repo).Refill(context.Background(), 2)
	if err != nil {
		t.Fatalf("store-level duplicate must not fail the batch: %v", err)
	}
	if report.Inserted != 1 || report.Skipped != 1 {
		t.Fatalf("report = %+v", report)
	}
}
