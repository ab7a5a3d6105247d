package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceCorrectSequence(t *testing.T) {
	// Fresh card answered correctly three times walks the 1, 6,
	// ceil(6 x ease) ladder.
	s := State{Interval: 0, EaseFactor: 2.5, Repetitions: 0}

	s = Advance(s, true)
	assert.Equal(t, 1, s.Interval)
	assert.Equal(t, 1, s.Repetitions)
	assert.InDelta(t, 2.6, s.EaseFactor, 0.001)

	s = Advance(s, true)
	assert.Equal(t, 6, s.Interval)
	assert.Equal(t, 2, s.Repetitions)
	assert.InDelta(t, 2.7, s.EaseFactor, 0.001)

	s = Advance(s, true)
	// ceil(6 * 2.8) = 17
	assert.Equal(t, 17, s.Interval)
	assert.Equal(t, 3, s.Repetitions)
	assert.InDelta(t, 2.8, s.EaseFactor, 0.001)
}

func TestAdvanceIncorrect(t *testing.T) {
	s := State{Interval: 17, EaseFactor: 2.8, Repetitions: 3}

	s = Advance(s, false)

	assert.Equal(t, 0, s.Interval, "missed card must be due immediately")
	assert.Equal(t, 0, s.Repetitions)
	// quality 2: ease drops by 0.32
	assert.InDelta(t, 2.48, s.EaseFactor, 0.001)
}

func TestAdvanceEaseFloor(t *testing.T) {
	s := State{Interval: 1, EaseFactor: 1.3, Repetitions: 0}

	for i := 0; i < 10; i++ {
		s = Advance(s, false)
		assert.GreaterOrEqual(t, s.EaseFactor, 1.3)
	}
	assert.Equal(t, 1.3, s.EaseFactor)
}

func TestAdvanceEaseMovesOnCorrect(t *testing.T) {
	// The ease factor moves on every answer, including passes.
	s := State{Interval: 6, EaseFactor: 1.3, Repetitions: 2}

	s = Advance(s, true)

	assert.InDelta(t, 1.4, s.EaseFactor, 0.001)
}

func TestAdvanceRecoveryAfterMiss(t *testing.T) {
	// A miss resets the ladder: the next pass goes back to interval 1.
	s := State{Interval: 17, EaseFactor: 2.8, Repetitions: 3}

	s = Advance(s, false)
	s = Advance(s, true)

	assert.Equal(t, 1, s.Interval)
	assert.Equal(t, 1, s.Repetitions)
}

func TestNewState(t *testing.T) {
	s := NewState()
	assert.Equal(t, 1, s.Interval)
	assert.Equal(t, 2.5, s.EaseFactor)
	assert.Equal(t, 0, s.Repetitions)
}
