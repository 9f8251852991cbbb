package core_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/phishdrill/phishdrill/internal/core"
	"github.com/phishdrill/phishdrill/internal/heuristics"
)

func newPolicy(seed int64) *core.SelectionPolicy {
	return core.NewSelectionPolicy(heuristics.NewAnalyzer(), rand.New(rand.NewSource(seed)))
}

func TestSelectNextEmptyPool(t *testing.T) {
	_, err := newPolicy(1).SelectNext(nil)
	if !errors.Is(err, core.ErrPoolExhausted) {
		t.Fatalf("expected ErrPoolExhausted, got %v", err)
	}
}

func TestSelectNextSingleItem(t *testing.T) {
	pool := []core.TrainingItem{item("a@example.com", "only")}
	got, err := newPolicy(1).SelectNext(pool)
	if err != nil {
		t.Fatalf("SelectNext failed: %v", err)
	}
	if got.Key() != pool[0].Key() {
		t.Fatalf("wrong item selected: %v", got.Key())
	}
}

func TestSelectNextWeightsEasierItems(t *testing.T) {
	easy := item("easy@example.com", "easy one")
	easy.Difficulty = core.DifficultyEasy
	hard := item("hard@example.com", "hard one")
	hard.Difficulty = core.DifficultyHard
	pool := []core.TrainingItem{easy, hard}

	policy := newPolicy(42)
	const draws = 6000

	easyCount := 0
	for i := 0; i < draws; i++ {
		got, err := policy.SelectNext(pool)
		if err != nil {
			t.Fatalf("SelectNext failed: %v", err)
		}
		if got.SenderEmail == easy.SenderEmail {
			easyCount++
		}
	}

	// easy=3, hard=1 should approach a 3:1 ratio.
	fraction := float64(easyCount) / draws
	if fraction < 0.70 || fraction > 0.80 {
		t.Fatalf("easy draw fraction %.3f outside [0.70, 0.80]", fraction)
	}
}

func TestSelectNextDoesNotMutatePool(t *testing.T) {
	pool := []core.TrainingItem{item("a@example.com", "one"), item("b@example.com", "two")}
	before := append([]core.TrainingItem(nil), pool...)

	if _, err := newPolicy(7).SelectNext(pool); err != nil {
		t.Fatalf("SelectNext failed: %v", err)
	}
	for i := range pool {
		if pool[i].Key() != before[i].Key() || pool[i].Difficulty != before[i].Difficulty {
			t.Fatalf("pool mutated at %d", i)
		}
	}
}

func TestSelectNextBackfillsUnclassifiedCopy(t *testing.T) {
	raw := core.TrainingItem{
		Subject:     "URGENT: Verify your acount",
		SenderName:  "Support",
		SenderEmail: "help@service-verify.com",
		BodyMarkup:  "<p>Send us your password right away.</p>",
		Explanation: "explanation",
	}
	pool := []core.TrainingItem{raw}

	got, err := newPolicy(3).SelectNext(pool)
	if err != nil {
		t.Fatalf("SelectNext failed: %v", err)
	}
	if !got.Difficulty.Valid() {
		t.Fatalf("difficulty not backfilled: %v", got.Difficulty)
	}
	if len(got.Features) == 0 {
		t.Fatal("features not backfilled")
	}
	if pool[0].Difficulty.Valid() || len(pool[0].Features) != 0 {
		t.Fatal("backfill leaked into the pool")
	}
}
