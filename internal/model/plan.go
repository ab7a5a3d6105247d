package model

// DailyPlan is the day's task list for one learner: a bounded set of
// brand-new items plus everything currently due for review. It is a
// reproducible projection, cached per learner per calendar day so that
// re-injecting a missed word into today's plan stays idempotent.
type DailyPlan struct {
	Date        string       `json:"date"` // YYYY-MM-DD
	NewWords    []Word       `json:"newWords"`
	ReviewWords []ReviewItem `json:"reviewWords"`
}

// ContainsNewWord reports whether the plan already introduces the given item.
func (p *DailyPlan) ContainsNewWord(wordID string) bool {
	for _, w := range p.NewWords {
		if w.ID == wordID {
			return true
		}
	}
	return false
}

// ContainsReview reports whether the plan's review set already has the item.
func (p *DailyPlan) ContainsReview(wordID string) bool {
	for _, r := range p.ReviewWords {
		if r.Word.ID == wordID {
			return true
		}
	}
	return false
}

// RemoveReview drops the item from the review set, returning true if present.
func (p *DailyPlan) RemoveReview(wordID string) bool {
	for i, r := range p.ReviewWords {
		if r.Word.ID == wordID {
			p.ReviewWords = append(p.ReviewWords[:i], p.ReviewWords[i+1:]...)
			return true
		}
	}
	return false
}
