package core

import (
	"fmt"
	"time"
)

// Difficulty is the coarse training tier derived from an item's phish score.
type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

// String returns the human-readable tier name.
func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// Valid reports whether d is one of the three known tiers.
func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

// Flag is a single triggered heuristic signal.
type Flag struct {
	Key    string
	Label  string
	Detail string
	Weight int
}

// AnalysisResult is the outcome of running the heuristic analyzer over one
// email's content.
type AnalysisResult struct {
	Flags      []Flag
	FlagKeys   []string
	PhishScore int
	Difficulty Difficulty
	TopReasons []Flag
}

// CandidateItem is a raw training email as produced by a generator, before
// validation. Features and Difficulty may be absent; the pipeline backfills
// them from the heuristic analyzer.
type CandidateItem struct {
	Subject     string     `json:"subject"`
	SenderName  string     `json:"sender_name"`
	SenderEmail string     `json:"sender_email"`
	BodyMarkup  string     `json:"body_markup"`
	IsPhish     bool       `json:"is_phish"`
	Explanation string     `json:"explanation"`
	Features    []string   `json:"features,omitempty"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
}

// TrainingItem is a candidate that passed validation: Features and Difficulty
// are guaranteed present.
type TrainingItem struct {
	ID          string
	Subject     string
	SenderName  string
	SenderEmail string
	BodyMarkup  string
	IsPhish     bool
	Explanation string
	Features    []string
	Difficulty  Difficulty
	CreatedAt   time.Time
}

// Key returns the item's identity key.
func (i TrainingItem) Key() IdentityKey {
	return IdentityKey{SenderEmail: i.SenderEmail, Subject: i.Subject}
}

// IdentityKey identifies a persisted training item for deduplication. No two
// persisted items share a key; the store's uniqueness constraint is the
// authoritative guard.
type IdentityKey struct {
	SenderEmail string
	Subject     string
}

// ClassifierVerdict is the response of an external ML classifier. A no-op
// classifier returns {0.5, nil, nil}; an all-empty verdict carries no insight
// and must not be surfaced as a signal on its own.
type ClassifierVerdict struct {
	ProbPhish float64
	Reasons   []string
	TopTokens []string
}

// ProfileSnapshot is the slice of a player profile the badge engine evaluates.
type ProfileSnapshot struct {
	Points               int
	Streak               int
	PerDifficultyCorrect map[Difficulty]int
}

// RequirementType names the profile metric a badge threshold applies to.
type RequirementType string

const (
	RequirementPoints         RequirementType = "points"
	RequirementStreak         RequirementType = "streak"
	RequirementCorrectAtLevel RequirementType = "correct_at_level"
)

// Badge is one entry of the ordered achievement table.
type Badge struct {
	ID          string
	Name        string
	Requirement RequirementType
	Threshold   int
	Level       Difficulty // only set for RequirementCorrectAtLevel
}

// NextBadge describes progress toward the first unearned badge in table order.
type NextBadge struct {
	ID      string
	Current int
	Target  int
	Percent int
}

// BadgeProgress is the result of a badge evaluation. EarnedIDs is append-only
// across evaluations: it always contains every previously earned id.
type BadgeProgress struct {
	EarnedIDs []string
	NextBadge *NextBadge
}

// PipelineReport summarizes one generate-validate-persist run.
type PipelineReport struct {
	Requested int
	Generated int
	Inserted  int
	Skipped   int
	Errors    []ValidationError
}
