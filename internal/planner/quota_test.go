package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRemainingDays(t *testing.T) {
	today := date(2026, 5, 18)

	tests := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{"ten days out", date(2026, 5, 28), 10},
		{"tomorrow", date(2026, 5, 19), 1},
		{"today", date(2026, 5, 18), 1},
		{"past deadline clamps to one", date(2026, 4, 1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemainingDays(tt.deadline, today))
		})
	}
}

func TestDeadlineQuota(t *testing.T) {
	tests := []struct {
		name          string
		needed        int
		remainingDays int
		want          int
	}{
		{"evenly divisible", 500, 10, 50},
		{"rounds up", 100, 30, 4},
		{"gap already closed", 0, 10, 0},
		{"over target", -200, 10, 0},
		{"single day takes everything", 120, 1, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeadlineQuota(tt.needed, tt.remainingDays))
		})
	}
}

func TestTimeQuota(t *testing.T) {
	b := DefaultBudget()

	tests := []struct {
		name string
		due  int
		want int
	}{
		{"no reviews", 0, 30},
		{"forty reviews", 40, 20},
		{"budget exhausted by reviews", 120, 0},
		{"overloaded review day", 500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.TimeQuota(tt.due))
		})
	}
}

func TestNewWordQuota(t *testing.T) {
	b := DefaultBudget()
	today := date(2026, 5, 18)

	// Deadline pressure below the time cap: deadline wins.
	q := NewWordQuota(500, date(2026, 5, 28), today, 0, b)
	assert.Equal(t, 30, q, "time budget caps the deadline quota")

	q = NewWordQuota(100, date(2026, 5, 28), today, 0, b)
	assert.Equal(t, 10, q)

	// Heavy review day squeezes new words out entirely.
	q = NewWordQuota(100, date(2026, 5, 28), today, 120, b)
	assert.Equal(t, 0, q)
}
