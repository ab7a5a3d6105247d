package model

import "time"

// WordReport is a learner-filed content issue on a catalog item.
type WordReport struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"not null;index" json:"userId"`
	WordID      string    `gorm:"type:uuid;not null;index" json:"wordId"`
	Word        string    `gorm:"not null;size:255" json:"word"`
	IssueType   string    `gorm:"not null;size:50" json:"issueType"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"default:'pending';size:20" json:"status"`
	ReviewedBy  *int64    `json:"reviewedBy,omitempty"`
	ReviewNote  string    `gorm:"type:text" json:"reviewNote,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (WordReport) TableName() string {
	return "word_reports"
}

// IssueType constants
const (
	IssueTypeMeaning = "meaning"
	IssueTypeExample = "example"
	IssueTypeLevel   = "level"
	IssueTypeOther   = "other"
)

// Status constants
const (
	StatusPending   = "pending"
	StatusResolved  = "resolved"
	StatusDismissed = "dismissed"
)
