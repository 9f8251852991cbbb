package core

import (
	"context"
)

// ContentRepository defines the interface for the persisted training store.
type ContentRepository interface {
	// FindExistingKeys returns the persisted identity keys matching the
	// given senders, restricted to the listed subjects per sender.
	FindExistingKeys(ctx context.Context, senders []string, subjectsBySender map[string][]string) (map[IdentityKey]struct{}, error)

	// BulkInsert persists a batch atomically and returns the ids of the
	// rows actually inserted. A uniqueness violation on an individual row
	// is benign: the row is skipped, not an error.
	BulkInsert(ctx context.Context, items []TrainingItem) ([]string, error)

	// CountsByDifficulty reports how many items exist per tier.
	CountsByDifficulty(ctx context.Context) (map[Difficulty]int, error)

	// CountsByVeracity reports how many phishing vs legitimate items exist.
	CountsByVeracity(ctx context.Context) (map[bool]int, error)
}

// CandidateGenerator defines the interface for the external content generator.
type CandidateGenerator interface {
	// Generate produces count synthetic training emails. count must be in
	// [1, 20]. Failures are reported as *GenerationError.
	Generate(ctx context.Context, count int) ([]CandidateItem, error)
}

// Classifier defines the optional external ML classifier. Implementations
// must be safe to leave unconfigured: the no-op returns a neutral verdict.
type Classifier interface {
	Classify(ctx context.Context, subject, body, sender string) (*ClassifierVerdict, error)
}

// Analyzer is the heuristic analysis contract the core depends on. The
// concrete implementation lives in the heuristics package.
type Analyzer interface {
	Analyze(subject, bodyMarkup, senderEmail, senderName string) *AnalysisResult
}
