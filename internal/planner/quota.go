package planner

import (
	"math"
	"time"
)

// Budget is the fixed daily study budget used to cap new-word introduction.
// A review card is quick recall; a new card needs a full read-through.
type Budget struct {
	DailySeconds      int
	NewItemSeconds    int
	ReviewItemSeconds int
}

// DefaultBudget is 30 minutes a day, 60s per new card, 15s per review card.
func DefaultBudget() Budget {
	return Budget{
		DailySeconds:      1800,
		NewItemSeconds:    60,
		ReviewItemSeconds: 15,
	}
}

// RemainingDays counts whole days until the deadline, clamped to at least 1.
// A deadline today or in the past means maximum urgency, never a zero divisor.
func RemainingDays(deadline, today time.Time) int {
	days := int(math.Ceil(deadline.Sub(today).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// DeadlineQuota is the per-day new-word count needed to close the vocabulary
// gap by the deadline.
func DeadlineQuota(neededWords, remainingDays int) int {
	if neededWords <= 0 {
		return 0
	}
	return int(math.Ceil(float64(neededWords) / float64(remainingDays)))
}

// TimeQuota is how many new cards fit in today's budget after the due reviews
// have taken their share.
func (b Budget) TimeQuota(dueReviewCount int) int {
	left := b.DailySeconds - dueReviewCount*b.ReviewItemSeconds
	if left < 0 {
		left = 0
	}
	return left / b.NewItemSeconds
}

// NewWordQuota blends the two caps: enough to finish on time, but never more
// than today's time allows.
func NewWordQuota(neededWords int, deadline, today time.Time, dueReviewCount int, b Budget) int {
	dq := DeadlineQuota(neededWords, RemainingDays(deadline, today))
	tq := b.TimeQuota(dueReviewCount)
	if tq < dq {
		return tq
	}
	return dq
}
