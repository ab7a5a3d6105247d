package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Checkpoint modes
const (
	CheckpointLearn  = "learn"
	CheckpointReview = "review"
	CheckpointTest   = "test"
)

// SessionCheckpoint is the learner's resume state: which card deck they were
// in and where. One row per user, overwritten on every save. This replaces
// the original client-local resume state with an explicit, store-backed value.
type SessionCheckpoint struct {
	ID       int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   int64          `gorm:"not null;uniqueIndex" json:"userId"`
	Mode     string         `gorm:"not null;size:20" json:"mode"`
	Position int            `gorm:"default:0" json:"position"`
	WordIDs  pq.StringArray `gorm:"type:text[]" json:"wordIds"`
	State    datatypes.JSON `json:"state,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

func (SessionCheckpoint) TableName() string {
	return "session_checkpoints"
}
