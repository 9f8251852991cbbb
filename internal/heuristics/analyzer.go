// Package heuristics implements the rule-based phishing content analyzer:
// a weighted suspicion-signal scanner, a score aggregator that buckets the
// total into a difficulty tier, and a ranker that picks the most salient
// signals for player-facing explanation.
package heuristics

import (
	"sort"

	"github.com/phishdrill/phishdrill/internal/core"
)

// Difficulty cut points over the aggregate phish score.
const (
	easyMaxScore   = 2
	mediumMaxScore = 5
)

// Bounds on the number of top reasons shown to a player.
const (
	minTopReasons = 2
	maxTopReasons = 4
)

// HeuristicAnalyzer composes the scanner, the score aggregation and the
// reason ranking into the analyze() contract the rest of the system consumes.
type HeuristicAnalyzer struct {
	scanner *Scanner
}

// NewAnalyzer creates a heuristic analyzer over the default rule table.
func NewAnalyzer() *HeuristicAnalyzer {
	return &HeuristicAnalyzer{scanner: NewScanner()}
}

// Analyze scans one email's content and returns the triggered flags, the
// aggregate score, the derived difficulty tier and the ranked top reasons.
func (a *HeuristicAnalyzer) Analyze(subject, bodyMarkup, senderEmail, senderName string) *core.AnalysisResult {
	flags := a.scanner.Scan(subject, bodyMarkup, senderEmail, senderName)

	keys := make([]string, len(flags))
	for i, f := range flags {
		keys[i] = f.Key
	}

	score := Score(flags)
	return &core.AnalysisResult{
		Flags:      flags,
		FlagKeys:   keys,
		PhishScore: score,
		Difficulty: Tier(score),
		TopReasons: TopReasons(flags),
	}
}

// Score sums the weights of the triggered flags.
func Score(flags []core.Flag) int {
	total := 0
	for _, f := range flags {
		total += f.Weight
	}
	return total
}

// Tier buckets a phish score into a difficulty tier.
func Tier(score int) core.Difficulty {
	switch {
	case score <= easyMaxScore:
		return core.DifficultyEasy
	case score <= mediumMaxScore:
		return core.DifficultyMedium
	default:
		return core.DifficultyHard
	}
}

// TopReasons returns the highest-weight flags for player-facing explanation:
// all of them when fewer than two triggered, otherwise between two and four.
// Ties keep detection order.
func TopReasons(flags []core.Flag) []core.Flag {
	if len(flags) < minTopReasons {
		return append([]core.Flag(nil), flags...)
	}

	ranked := append([]core.Flag(nil), flags...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})

	n := len(ranked)
	if n > maxTopReasons {
		n = maxTopReasons
	}
	return ranked[:n]
}
