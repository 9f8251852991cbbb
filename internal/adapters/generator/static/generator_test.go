package static

import (
	"context"
	"testing"

	"github.com/phishdrill/phishdrill/internal/core"
)

func TestGenerateReturnsRequestedCount(t *testing.T) {
	g := NewGenerator()

	items, err := g.Generate(context.Background(), 5)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("got %d items, want 5", len(items))
	}
}

func TestGenerateCapsAtCorpusSize(t *testing.T) {
	g := NewGenerator()

	items, err := g.Generate(context.Background(), core.MaxBatchSize)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(items) != len(seedCorpus) {
		t.Fatalf("got %d items, want full corpus of %d", len(items), len(seedCorpus))
	}
}

func TestGenerateRejectsOutOfRangeCount(t *testing.T) {
	g := NewGenerator()

	if _, err := g.Generate(context.Background(), 0); err == nil {
		t.Error("count 0 must be rejected")
	}
	if _, err := g.Generate(context.Background(), core.MaxBatchSize+1); err == nil {
		t.Error("oversized count must be rejected")
	}
}

func TestCorpusHasDistinctIdentities(t *testing.T) {
	seen := make(map[core.IdentityKey]bool)
	for _, c := range seedCorpus {
		key := core.IdentityKey{SenderEmail: c.SenderEmail, Subject: c.Subject}
		if seen[key] {
			t.Errorf("duplicate corpus identity %v", key)
		}
		seen[key] = true
	}
}

func TestCorpusCandidatesAreWellFormed(t *testing.T) {
	for i, c := range seedCorpus {
		if c.Subject == "" || c.SenderName == "" || c.SenderEmail == "" ||
			c.BodyMarkup == "" || c.Explanation == "" {
			t.Errorf("corpus item %d has an empty required field: %+v", i, c)
		}
	}
}
