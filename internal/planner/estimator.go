package planner

import "github.com/sgtokt1221/tsukutan-app/internal/model"

// TargetVocabulary is the max required vocabulary across the learner's active
// goal targets; a learner pursuing multiple goals is paced by the most
// demanding one. Targets missing from the master contribute nothing.
func TargetVocabulary(targets []model.GoalTarget, master []model.GoalMaster) int {
	byID := make(map[string]model.GoalMaster, len(master))
	for _, g := range master {
		byID[g.ID] = g
	}
	max := 0
	for _, t := range targets {
		if g, ok := byID[t.GoalID]; ok && g.RequiredVocabulary > max {
			max = g.RequiredVocabulary
		}
	}
	return max
}

// HighestGoalLevel is the max catalog level across the learner's goal
// targets, 0 when none resolve.
func HighestGoalLevel(targets []model.GoalTarget, master []model.GoalMaster) int {
	byID := make(map[string]model.GoalMaster, len(master))
	for _, g := range master {
		byID[g.ID] = g
	}
	max := 0
	for _, t := range targets {
		if g, ok := byID[t.GoalID]; ok && g.Level > max {
			max = g.Level
		}
	}
	return max
}

// NeededWords estimates the vocabulary gap still to close.
func NeededWords(targetVocabulary, currentVocabulary int) int {
	n := targetVocabulary - currentVocabulary
	if n < 0 {
		return 0
	}
	return n
}

// ProgressPercentage is the goal-completion ratio shown on the dashboard,
// clamped to 100.
func ProgressPercentage(currentVocabulary, targetVocabulary int) int {
	if targetVocabulary <= 0 {
		return 0
	}
	pct := int(float64(currentVocabulary)/float64(targetVocabulary)*100 + 0.5)
	if pct > 100 {
		return 100
	}
	return pct
}
