package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
	"github.com/sgtokt1221/tsukutan-app/internal/srs"
)

// LedgerStore is the gorm-backed home of review records.
type LedgerStore struct {
	db    *gorm.DB
	retry RetryPolicy
}

func NewLedgerStore(db *gorm.DB, retry RetryPolicy) *LedgerStore {
	return &LedgerStore{db: db, retry: retry}
}

func (s *LedgerStore) Get(ctx context.Context, userID int64, wordID string) (*model.ReviewRecord, error) {
	var rec model.ReviewRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND word_id = ?", userID, wordID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, srs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &rec, nil
}

// Upsert writes the record, overwriting any existing row for the same
// (user, word) pair. Re-applying the same write is safe.
func (s *LedgerStore) Upsert(ctx context.Context, rec *model.ReviewRecord) error {
	err := s.retry.Do(ctx, func() error {
		return s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "word_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"interval", "ease_factor", "repetitions",
				"last_reviewed", "next_review_date", "updated_at",
			}),
		}).Create(rec).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete removes the record. Deleting an absent record is a no-op.
func (s *LedgerStore) Delete(ctx context.Context, userID int64, wordID string) error {
	err := s.retry.Do(ctx, func() error {
		return s.db.WithContext(ctx).
			Where("user_id = ? AND word_id = ?", userID, wordID).
			Delete(&model.ReviewRecord{}).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// DueBefore returns records with next_review_date <= asOf, oldest-due first,
// joined with catalog content.
func (s *LedgerStore) DueBefore(ctx context.Context, userID int64, asOf time.Time) ([]model.ReviewItem, error) {
	var records []model.ReviewRecord
	err := s.db.WithContext(ctx).
		Preload("Word").
		Where("user_id = ? AND next_review_date <= ?", userID, asOf).
		Order("next_review_date ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	items := make([]model.ReviewItem, len(records))
	for i, rec := range records {
		items[i] = model.ReviewItem{Record: rec, Word: rec.Word}
		items[i].Record.Word = model.Word{}
	}
	return items, nil
}

// WordIDs returns the set of word IDs tracked in the learner's ledger.
func (s *LedgerStore) WordIDs(ctx context.Context, userID int64) (map[string]bool, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&model.ReviewRecord{}).
		Where("user_id = ?", userID).
		Pluck("word_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// All returns the learner's entire ledger joined with catalog content, for
// listing and export.
func (s *LedgerStore) All(ctx context.Context, userID int64) ([]model.ReviewItem, error) {
	var records []model.ReviewRecord
	err := s.db.WithContext(ctx).
		Preload("Word").
		Where("user_id = ?", userID).
		Order("next_review_date ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	items := make([]model.ReviewItem, len(records))
	for i, rec := range records {
		items[i] = model.ReviewItem{Record: rec, Word: rec.Word}
		items[i].Record.Word = model.Word{}
	}
	return items, nil
}
