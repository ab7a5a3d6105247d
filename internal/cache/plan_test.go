package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlanKey(t *testing.T) {
	day := time.Date(2026, 5, 18, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "plan:42:2026-05-18", PlanKey(42, day))

	// Key is stable across the calendar day.
	morning := time.Date(2026, 5, 18, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, PlanKey(42, day), PlanKey(42, morning))
}
