package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func samplePlan() *DailyPlan {
	return &DailyPlan{
		Date:     "2026-05-18",
		NewWords: []Word{{ID: "n1"}, {ID: "n2"}},
		ReviewWords: []ReviewItem{
			{Word: Word{ID: "r1"}},
			{Word: Word{ID: "r2"}},
		},
	}
}

func TestDailyPlanContains(t *testing.T) {
	p := samplePlan()

	assert.True(t, p.ContainsNewWord("n1"))
	assert.False(t, p.ContainsNewWord("r1"))
	assert.True(t, p.ContainsReview("r2"))
	assert.False(t, p.ContainsReview("n1"))
}

func TestDailyPlanRemoveReview(t *testing.T) {
	p := samplePlan()

	assert.True(t, p.RemoveReview("r1"))
	assert.False(t, p.ContainsReview("r1"))
	assert.Len(t, p.ReviewWords, 1)

	assert.False(t, p.RemoveReview("r1"), "second removal is a no-op")
}

func TestNormalizePartOfSpeech(t *testing.T) {
	tests := []struct {
		in   string
		want PartOfSpeech
		ok   bool
	}{
		{"名詞", POSNoun, true},
		{"名", POSNoun, true},
		{"関係代名詞", POSRelativePronoun, true},
		{"熟語", POSIdiom, true},
		{"verb", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizePartOfSpeech(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestUserDeadline(t *testing.T) {
	u := &User{Goal: Goal{TargetDate: "2026-07-01", IsSet: true}}
	d, ok := u.Deadline()
	assert.True(t, ok)
	assert.Equal(t, "2026-07-01", d.Format("2006-01-02"))

	_, ok = (&User{}).Deadline()
	assert.False(t, ok)

	_, ok = (&User{Goal: Goal{TargetDate: "bad", IsSet: true}}).Deadline()
	assert.False(t, ok)
}
