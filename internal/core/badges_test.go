package core_test

import (
	"reflect"
	"testing"

	"github.com/phishdrill/phishdrill/internal/core"
)

func twoBadgeTable() []core.Badge {
	return []core.Badge{
		{ID: "first_steps", Requirement: core.RequirementPoints, Threshold: 5},
		{ID: "rising_star", Requirement: core.RequirementPoints, Threshold: 25},
	}
}

func TestEvaluateBadgesPointsThreshold(t *testing.T) {
	engine := core.NewBadgeEngine(twoBadgeTable())
	snapshot := core.ProfileSnapshot{Points: 5}

	progress := engine.Evaluate(snapshot, nil)
	if !reflect.DeepEqual(progress.EarnedIDs, []string{"first_steps"}) {
		t.Fatalf("earned = %v, want [first_steps]", progress.EarnedIDs)
	}
	next := progress.NextBadge
	if next == nil {
		t.Fatal("expected a next badge")
	}
	if next.ID != "rising_star" || next.Current != 5 || next.Target != 25 || next.Percent != 20 {
		t.Fatalf("next = %+v", next)
	}
}

func TestEvaluateBadgesIdempotent(t *testing.T) {
	engine := core.NewBadgeEngine(twoBadgeTable())
	snapshot := core.ProfileSnapshot{Points: 7}

	first := engine.Evaluate(snapshot, nil)
	second := engine.Evaluate(snapshot, first.EarnedIDs)

	if !reflect.DeepEqual(first.EarnedIDs, second.EarnedIDs) {
		t.Fatalf("second evaluation changed earned set: %v vs %v", first.EarnedIDs, second.EarnedIDs)
	}
}

func TestEvaluateBadgesNeverShrinks(t *testing.T) {
	table := []core.Badge{
		{ID: "on_a_roll", Requirement: core.RequirementStreak, Threshold: 3},
	}
	engine := core.NewBadgeEngine(table)

	earned := engine.Evaluate(core.ProfileSnapshot{Streak: 4}, nil).EarnedIDs
	if !reflect.DeepEqual(earned, []string{"on_a_roll"}) {
		t.Fatalf("earned = %v", earned)
	}

	// Streak resets; the badge stays.
	after := engine.Evaluate(core.ProfileSnapshot{Streak: 0}, earned)
	if !reflect.DeepEqual(after.EarnedIDs, []string{"on_a_roll"}) {
		t.Fatalf("earned set shrank: %v", after.EarnedIDs)
	}
}

func TestEvaluateBadgesPerDifficultyLevel(t *testing.T) {
	table := []core.Badge{
		{ID: "phish_hunter", Requirement: core.RequirementCorrectAtLevel, Threshold: 5, Level: core.DifficultyHard},
	}
	engine := core.NewBadgeEngine(table)

	snapshot := core.ProfileSnapshot{
		PerDifficultyCorrect: map[core.Difficulty]int{
			core.DifficultyEasy: 20,
			core.DifficultyHard: 4,
		},
	}
	progress := engine.Evaluate(snapshot, nil)
	if len(progress.EarnedIDs) != 0 {
		t.Fatalf("badge earned too early: %v", progress.EarnedIDs)
	}
	if progress.NextBadge == nil || progress.NextBadge.Current != 4 || progress.NextBadge.Percent != 80 {
		t.Fatalf("next = %+v", progress.NextBadge)
	}

	snapshot.PerDifficultyCorrect[core.DifficultyHard] = 5
	progress = engine.Evaluate(snapshot, nil)
	if !reflect.DeepEqual(progress.EarnedIDs, []string{"phish_hunter"}) {
		t.Fatalf("earned = %v", progress.EarnedIDs)
	}
	if progress.NextBadge != nil {
		t.Fatalf("no next badge expected, got %+v", progress.NextBadge)
	}
}

func TestEvaluateBadgesPercentClamped(t *testing.T) {
	engine := core.NewBadgeEngine(twoBadgeTable())

	progress := engine.Evaluate(core.ProfileSnapshot{Points: 4}, []string{"first_steps", "rising_star"})
	if progress.NextBadge != nil {
		t.Fatalf("all badges earned, next should be nil: %+v", progress.NextBadge)
	}

	progress = engine.Evaluate(core.ProfileSnapshot{Points: 0}, nil)
	if progress.NextBadge == nil || progress.NextBadge.Percent != 0 {
		t.Fatalf("next = %+v", progress.NextBadge)
	}
}

func TestDefaultBadgeTableOrderedAndUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, b := range core.DefaultBadgeTable() {
		if seen[b.ID] {
			t.Fatalf("duplicate badge id %q", b.ID)
		}
		seen[b.ID] = true
		if b.Threshold <= 0 {
			t.Fatalf("badge %q has non-positive threshold", b.ID)
		}
		if b.Requirement == core.RequirementCorrectAtLevel && !b.Level.Valid() {
			t.Fatalf("badge %q missing level", b.ID)
		}
	}
}
