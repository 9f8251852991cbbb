package core

import (
	"math/rand"
)

// difficultyWeights bias the draw toward easier items: an easy item is three
// times as likely to be drawn as a hard one.
var difficultyWeights = map[Difficulty]int{
	DifficultyEasy:   3,
	DifficultyMedium: 2,
	DifficultyHard:   1,
}

// SelectionPolicy draws the next unseen training item for a player with a
// difficulty-weighted random pick. It never mutates the pool or marks an item
// seen; that transition happens when the player records an answer.
type SelectionPolicy struct {
	analyzer Analyzer
	rng      *rand.Rand
}

// NewSelectionPolicy creates a selection policy. rng may be nil, in which
// case the shared math/rand source is used; tests inject a seeded one.
func NewSelectionPolicy(analyzer Analyzer, rng *rand.Rand) *SelectionPolicy {
	return &SelectionPolicy{analyzer: analyzer, rng: rng}
}

// SelectNext draws one item from the unseen pool, each item weighted by its
// difficulty tier. An empty pool returns ErrPoolExhausted so the caller can
// trigger generation and retry. Items missing difficulty or features are
// backfilled on the returned copy only; nothing is persisted here.
func (p *SelectionPolicy) SelectNext(pool []TrainingItem) (*TrainingItem, error) {
	if len(pool) == 0 {
		return nil, ErrPoolExhausted
	}

	total := 0
	for _, item := range pool {
		total += p.weightOf(item)
	}

	r := p.intn(total)
	for _, item := range pool {
		r -= p.weightOf(item)
		if r < 0 {
			picked := item
			p.backfill(&picked)
			return &picked, nil
		}
	}

	// Unreachable while weights stay positive.
	picked := pool[len(pool)-1]
	p.backfill(&picked)
	return &picked, nil
}

func (p *SelectionPolicy) weightOf(item TrainingItem) int {
	if w, ok := difficultyWeights[item.Difficulty]; ok {
		return w
	}
	// Unclassified items draw like easy ones until backfilled.
	return difficultyWeights[DifficultyEasy]
}

func (p *SelectionPolicy) intn(n int) int {
	if p.rng != nil {
		return p.rng.Intn(n)
	}
	return rand.Intn(n)
}

// backfill fills missing difficulty and features on the drawn copy from the
// heuristic analyzer.
func (p *SelectionPolicy) backfill(item *TrainingItem) {
	if item.Difficulty.Valid() && len(item.Features) > 0 {
		return
	}
	res := p.analyzer.Analyze(item.Subject, item.BodyMarkup, item.SenderEmail, item.SenderName)
	if !item.Difficulty.Valid() {
		item.Difficulty = res.Difficulty
	}
	if len(item.Features) == 0 {
		labels := make([]string, len(res.TopReasons))
		for i, f := range res.TopReasons {
			labels[i] = f.Label
		}
		item.Features = labels
	}
}
