package assessment

import (
	"math/rand"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

// Five stages of twenty questions each; the learner starts at the 中学卒業
// band and moves one level per stage based on the score.
const (
	StageCount        = 5
	QuestionsPerStage = 20
	StartLevel        = 4

	levelUpScore   = 16 // 80% and above
	levelDownScore = 8  // 40% and below
)

// estimatedVocabulary maps a placement level to an approximate known
// vocabulary size, anchored to the 英検 bands the levels correspond to. Used
// to seed the progress snapshot after a test.
var estimatedVocabulary = map[int]int{
	1: 600,
	2: 1300,
	3: 2100,
	4: 3600,
	5: 5100,
	6: 6500,
	7: 8000,
	8: 12000,
}

// NextLevel applies one stage result: score >= 16 moves up a level, <= 8
// moves down, anything between holds. Clamped to the catalog's level range.
func NextLevel(current, score int) int {
	next := current
	if score >= levelUpScore {
		next = current + 1
	} else if score <= levelDownScore {
		next = current - 1
	}
	if next < model.MinLevel {
		return model.MinLevel
	}
	if next > model.MaxLevel {
		return model.MaxLevel
	}
	return next
}

// EstimatedVocabulary returns the vocabulary-size estimate for a placement
// level, 0 for levels outside the range.
func EstimatedVocabulary(level int) int {
	return estimatedVocabulary[level]
}

// BuildStage draws a stage's question set from the pool: items at the stage
// level first, topped up from the adjacent levels when the level is sparse.
func BuildStage(pool []model.Word, level, n int) []model.Word {
	var primary, nearby []model.Word
	for _, w := range pool {
		switch w.Level {
		case level:
			primary = append(primary, w)
		case level - 1, level + 1:
			nearby = append(nearby, w)
		}
	}

	shuffle(primary)
	if len(primary) < n {
		shuffle(nearby)
		need := n - len(primary)
		if need > len(nearby) {
			need = len(nearby)
		}
		primary = append(primary, nearby[:need]...)
	}

	if len(primary) > n {
		primary = primary[:n]
	}
	return primary
}

// RecommendedLevels is the learning range suggested after placement: the
// current level plus the next one up.
func RecommendedLevels(level int) []int {
	if level < model.MinLevel {
		return nil
	}
	if level >= model.MaxLevel {
		return []int{model.MaxLevel}
	}
	return []int{level, level + 1}
}

func shuffle(words []model.Word) {
	rand.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}
