package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Role constants
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// GoalTarget is one selected goal from the goals master.
type GoalTarget struct {
	GoalID      string `json:"goalId"`
	DisplayName string `json:"displayName"`
}

// Goal is the learner's goal definition: one or more master targets plus a
// single completion date (YYYY-MM-DD). Stored as JSONB on the user row.
type Goal struct {
	Targets    []GoalTarget `json:"targets"`
	TargetDate string       `json:"targetDate"`
	IsSet      bool         `json:"isSet"`
}

// Value implements driver.Valuer for JSONB serialization
func (g Goal) Value() (driver.Value, error) {
	return json.Marshal(g)
}

// Scan implements sql.Scanner for JSONB deserialization
func (g *Goal) Scan(value interface{}) error {
	if value == nil {
		*g = Goal{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal Goal: not a byte slice")
	}
	return json.Unmarshal(bytes, g)
}

// User is a learner profile (or an admin account). The scheduling core only
// reads it; mutation happens through assessment and goal-setting handlers.
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID    string `gorm:"uniqueIndex;size:10" json:"studentId"`
	Name         string `gorm:"size:255" json:"name"`
	Email        string `gorm:"not null;size:255" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Role         string `gorm:"not null;default:'student';size:20" json:"role"`

	// Current estimated proficiency level, 0 until the first placement test.
	Level int  `gorm:"default:0" json:"level"`
	Goal  Goal `gorm:"type:jsonb;default:'{}'" json:"goal"`

	// Progress snapshot.
	CurrentVocabulary int        `gorm:"default:0" json:"currentVocabulary"`
	TargetVocabulary  int        `gorm:"default:0" json:"targetVocabulary"`
	Percentage        int        `gorm:"default:0" json:"percentage"`
	LastCheckedAt     *time.Time `json:"lastCheckedAt"`

	LastStoryGeneration *time.Time `json:"lastStoryGeneration,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// Deadline parses the goal's target date. ok is false when no goal is set.
func (u *User) Deadline() (time.Time, bool) {
	if !u.Goal.IsSet || u.Goal.TargetDate == "" {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", u.Goal.TargetDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
