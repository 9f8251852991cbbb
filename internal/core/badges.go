package core

// BadgeEngine evaluates a profile snapshot against an ordered, monotonic
// threshold table. Earned badges are never removed, even when the snapshot
// later regresses.
type BadgeEngine struct {
	table []Badge
}

// NewBadgeEngine creates an engine over the given ordered table. A nil table
// uses the default one.
func NewBadgeEngine(table []Badge) *BadgeEngine {
	if table == nil {
		table = DefaultBadgeTable()
	}
	return &BadgeEngine{table: table}
}

// DefaultBadgeTable returns the built-in achievement ladder.
func DefaultBadgeTable() []Badge {
	return []Badge{
		{ID: "first_steps", Name: "First Steps", Requirement: RequirementPoints, Threshold: 5},
		{ID: "rising_star", Name: "Rising Star", Requirement: RequirementPoints, Threshold: 25},
		{ID: "point_collector", Name: "Point Collector", Requirement: RequirementPoints, Threshold: 100},
		{ID: "on_a_roll", Name: "On a Roll", Requirement: RequirementStreak, Threshold: 3},
		{ID: "hot_streak", Name: "Hot Streak", Requirement: RequirementStreak, Threshold: 7},
		{ID: "unstoppable", Name: "Unstoppable", Requirement: RequirementStreak, Threshold: 15},
		{ID: "warming_up", Name: "Warming Up", Requirement: RequirementCorrectAtLevel, Threshold: 5, Level: DifficultyEasy},
		{ID: "sharp_eye", Name: "Sharp Eye", Requirement: RequirementCorrectAtLevel, Threshold: 5, Level: DifficultyMedium},
		{ID: "phish_hunter", Name: "Phish Hunter", Requirement: RequirementCorrectAtLevel, Threshold: 5, Level: DifficultyHard},
	}
}

// Evaluate unions every newly satisfied badge into the earned set and reports
// progress toward the first unearned badge in table order. The call is
// idempotent: an unchanged snapshot with the previous result's earned ids
// yields no new badges.
func (e *BadgeEngine) Evaluate(snapshot ProfileSnapshot, earnedIDs []string) BadgeProgress {
	earned := make(map[string]bool, len(earnedIDs))
	result := append([]string(nil), earnedIDs...)
	for _, id := range earnedIDs {
		earned[id] = true
	}

	for _, b := range e.table {
		if earned[b.ID] {
			continue
		}
		if e.metric(snapshot, b) >= b.Threshold {
			earned[b.ID] = true
			result = append(result, b.ID)
		}
	}

	progress := BadgeProgress{EarnedIDs: result}
	for _, b := range e.table {
		if earned[b.ID] {
			continue
		}
		current := e.metric(snapshot, b)
		progress.NextBadge = &NextBadge{
			ID:      b.ID,
			Current: current,
			Target:  b.Threshold,
			Percent: clampPercent(current, b.Threshold),
		}
		break
	}
	return progress
}

// metric resolves the snapshot field a badge's threshold applies to.
func (e *BadgeEngine) metric(snapshot ProfileSnapshot, b Badge) int {
	switch b.Requirement {
	case RequirementPoints:
		return snapshot.Points
	case RequirementStreak:
		return snapshot.Streak
	case RequirementCorrectAtLevel:
		return snapshot.PerDifficultyCorrect[b.Level]
	default:
		return 0
	}
}

func clampPercent(current, target int) int {
	if target <= 0 {
		return 100
	}
	pct := 100 * current / target
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
