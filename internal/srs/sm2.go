package srs

import (
	"math"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

// Quality scores fed into the ease-factor formula. The app only collects a
// binary outcome from the learner, so the full 0-5 SM-2 scale collapses to
// two points: a confident pass and a failed recall.
const (
	qualityCorrect   = 5
	qualityIncorrect = 2
)

// State is the scheduling portion of a review record.
type State struct {
	Interval    int     // days until next review, >= 0
	EaseFactor  float64 // >= 1.3
	Repetitions int     // consecutive-correct counter
}

// NewState is the state of a freshly inserted record: due tomorrow if the
// first review passes, standard initial ease.
func NewState() State {
	return State{
		Interval:    model.InitialInterval,
		EaseFactor:  model.InitialEaseFactor,
		Repetitions: 0,
	}
}

// Advance applies one SM-2 review step.
//
// The ease factor always moves, pass or fail, and is floored at 1.3. On a
// correct answer the interval follows the 1, 6, ceil(interval x ease') ladder
// and the repetition counter increments. On an incorrect answer the interval
// drops to 0 (due immediately, so the card resurfaces today) and the counter
// resets.
func Advance(s State, correct bool) State {
	q := float64(qualityIncorrect)
	if correct {
		q = float64(qualityCorrect)
	}

	ease := s.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ease < model.MinEaseFactor {
		ease = model.MinEaseFactor
	}

	next := State{EaseFactor: ease}
	if correct {
		switch s.Repetitions {
		case 0:
			next.Interval = 1
		case 1:
			next.Interval = 6
		default:
			next.Interval = int(math.Ceil(float64(s.Interval) * ease))
		}
		next.Repetitions = s.Repetitions + 1
	} else {
		next.Interval = 0
		next.Repetitions = 0
	}
	return next
}
