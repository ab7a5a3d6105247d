package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StudyLogEntry is a single recorded flashcard outcome.
type StudyLogEntry struct {
	WordID  string    `json:"wordId"`
	Word    string    `json:"word"`
	Correct bool      `json:"correct"`
	At      time.Time `json:"at"`
}

// StudyLogEntries is a slice of StudyLogEntry that implements SQL
// scanner/valuer for JSONB.
type StudyLogEntries []StudyLogEntry

// Value implements driver.Valuer for JSONB serialization
func (e StudyLogEntries) Value() (driver.Value, error) {
	if e == nil {
		return json.Marshal([]StudyLogEntry{})
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner for JSONB deserialization
func (e *StudyLogEntries) Scan(value interface{}) error {
	if value == nil {
		*e = []StudyLogEntry{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal StudyLogEntries: not a byte slice")
	}
	return json.Unmarshal(bytes, e)
}

// StudyLogDaily stores one learner-day of flashcard outcomes as a JSONB
// array. Rows are produced by flushing the Redis study-log buffer; the admin
// dashboard reads them for per-student activity.
type StudyLogDaily struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64           `gorm:"not null;uniqueIndex:idx_study_log_user_date,priority:1" json:"userId"`
	Date      time.Time       `gorm:"type:date;not null;uniqueIndex:idx_study_log_user_date,priority:2" json:"date"`
	Entries   StudyLogEntries `gorm:"type:jsonb;not null;default:'[]'" json:"entries"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (StudyLogDaily) TableName() string {
	return "study_log_daily"
}

// Append adds an outcome to the day's entries. Repeated outcomes for the same
// word are kept as separate entries; a card can be missed more than once.
func (s *StudyLogDaily) Append(entry StudyLogEntry) {
	s.Entries = append(s.Entries, entry)
}

// Counts returns the number of correct and incorrect outcomes for the day.
func (s *StudyLogDaily) Counts() (correct int, incorrect int) {
	for _, e := range s.Entries {
		if e.Correct {
			correct++
		} else {
			incorrect++
		}
	}
	return correct, incorrect
}
