package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

var testMaster = []model.GoalMaster{
	{ID: "eiken_3", RequiredVocabulary: 2100, Level: 3},
	{ID: "eiken_pre2", RequiredVocabulary: 3600, Level: 4},
	{ID: "uni_50", RequiredVocabulary: 4000, Level: 5},
}

func TestTargetVocabulary(t *testing.T) {
	targets := []model.GoalTarget{{GoalID: "eiken_3"}, {GoalID: "uni_50"}}
	assert.Equal(t, 4000, TargetVocabulary(targets, testMaster), "most demanding goal paces the plan")

	assert.Equal(t, 0, TargetVocabulary(nil, testMaster))
	assert.Equal(t, 0, TargetVocabulary([]model.GoalTarget{{GoalID: "gone"}}, testMaster))
}

func TestHighestGoalLevel(t *testing.T) {
	targets := []model.GoalTarget{{GoalID: "eiken_3"}, {GoalID: "eiken_pre2"}}
	assert.Equal(t, 4, HighestGoalLevel(targets, testMaster))
	assert.Equal(t, 0, HighestGoalLevel(nil, testMaster))
}

func TestNeededWords(t *testing.T) {
	assert.Equal(t, 1500, NeededWords(3600, 2100))
	assert.Equal(t, 0, NeededWords(2100, 3600), "ahead of target needs nothing")
}

func TestProgressPercentage(t *testing.T) {
	assert.Equal(t, 58, ProgressPercentage(2100, 3600))
	assert.Equal(t, 100, ProgressPercentage(5000, 3600), "clamped at 100")
	assert.Equal(t, 0, ProgressPercentage(2100, 0), "no goal means no percentage")
}
