package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

func TestNextLevel(t *testing.T) {
	tests := []struct {
		name    string
		current int
		score   int
		want    int
	}{
		{"high score moves up", 4, 16, 5},
		{"perfect score moves up", 4, 20, 5},
		{"low score moves down", 4, 8, 3},
		{"zero score moves down", 4, 0, 3},
		{"middling score holds", 4, 12, 4},
		{"just under the up threshold", 4, 15, 4},
		{"just over the down threshold", 4, 9, 4},
		{"clamped at the top", 8, 20, 8},
		{"clamped at the bottom", 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextLevel(tt.current, tt.score))
		})
	}
}

func TestEstimatedVocabulary(t *testing.T) {
	assert.Equal(t, 600, EstimatedVocabulary(1))
	assert.Equal(t, 12000, EstimatedVocabulary(8))
	assert.Equal(t, 0, EstimatedVocabulary(0))
	assert.Equal(t, 0, EstimatedVocabulary(9))
}

func TestBuildStage(t *testing.T) {
	pool := []model.Word{
		{ID: "a", Level: 4}, {ID: "b", Level: 4}, {ID: "c", Level: 4},
		{ID: "d", Level: 3}, {ID: "e", Level: 5},
		{ID: "f", Level: 1},
	}

	t.Run("prefers the stage level", func(t *testing.T) {
		stage := BuildStage(pool, 4, 3)
		assert.Len(t, stage, 3)
		for _, w := range stage {
			assert.Equal(t, 4, w.Level)
		}
	})

	t.Run("tops up from adjacent levels", func(t *testing.T) {
		stage := BuildStage(pool, 4, 5)
		assert.Len(t, stage, 5)
		for _, w := range stage {
			assert.NotEqual(t, "f", w.ID, "distant levels stay out")
		}
	})

	t.Run("sparse pool returns what it has", func(t *testing.T) {
		stage := BuildStage(pool, 4, 20)
		assert.Len(t, stage, 5)
	})
}

func TestRecommendedLevels(t *testing.T) {
	assert.Equal(t, []int{4, 5}, RecommendedLevels(4))
	assert.Equal(t, []int{8}, RecommendedLevels(8))
	assert.Nil(t, RecommendedLevels(0))
}
