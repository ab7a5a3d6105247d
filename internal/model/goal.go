package model

import "time"

// GoalMaster is a row in the goal catalog (英検, 高校入試, 大学入試 targets).
// RequiredVocabulary paces the daily plan; Level is the catalog level the
// goal's vocabulary tops out at, used by the supplementary review quota.
type GoalMaster struct {
	ID                 string    `gorm:"primaryKey;size:30" json:"id"`
	DisplayName        string    `gorm:"not null;size:100" json:"displayName"`
	Description        string    `gorm:"type:text" json:"description"`
	Category           string    `gorm:"size:30" json:"category"`
	RequiredVocabulary int       `gorm:"not null" json:"requiredVocabulary"`
	Level              int       `gorm:"not null" json:"level"`
	CreatedAt          time.Time `json:"createdAt"`
}

func (GoalMaster) TableName() string {
	return "goals_master"
}

// Category constants
const (
	CategoryEiken      = "eiken"
	CategoryHighSchool = "highschool"
	CategoryUniversity = "university"
)
