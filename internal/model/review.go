package model

import "time"

// SM-2 state defaults for a freshly inserted record.
const (
	InitialInterval   = 1
	InitialEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// ReviewRecord is the per-(learner, word) spaced-repetition state. A record is
// "due" when NextReviewDate <= now. Created the first time a word is missed
// during learning or explicitly added for review; deleted when mastered.
type ReviewRecord struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64  `gorm:"not null;uniqueIndex:idx_review_user_word,priority:1" json:"userId"`
	WordID string `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_word,priority:2" json:"wordId"`

	Interval       int       `gorm:"not null;default:1" json:"interval"`
	EaseFactor     float64   `gorm:"not null;default:2.5" json:"easeFactor"`
	Repetitions    int       `gorm:"not null;default:0" json:"repetitions"`
	LastReviewed   time.Time `json:"lastReviewed"`
	NextReviewDate time.Time `json:"nextReviewDate"`

	Word Word `gorm:"foreignKey:WordID" json:"word"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ReviewRecord) TableName() string {
	return "review_records"
}

// ReviewItem is a ledger record joined with its catalog content for display.
type ReviewItem struct {
	Record ReviewRecord `json:"record"`
	Word   Word         `json:"word"`
}
