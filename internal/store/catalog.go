package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

// CatalogStore is read-heavy access to the vocabulary catalog.
type CatalogStore struct {
	db    *gorm.DB
	retry RetryPolicy
}

func NewCatalogStore(db *gorm.DB, retry RetryPolicy) *CatalogStore {
	return &CatalogStore{db: db, retry: retry}
}

func (s *CatalogStore) WordsAtLevels(ctx context.Context, textbook string, levels []int) ([]model.Word, error) {
	var words []model.Word
	err := s.db.WithContext(ctx).
		Where("textbook = ? AND level IN ?", textbook, levels).
		Find(&words).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return words, nil
}

func (s *CatalogStore) Get(ctx context.Context, id string) (*model.Word, error) {
	var word model.Word
	err := s.db.WithContext(ctx).First(&word, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &word, nil
}

func (s *CatalogStore) GetByIDs(ctx context.Context, ids []string) ([]model.Word, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var words []model.Word
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&words).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return words, nil
}

// CountByTextbook returns catalog sizes per textbook, for the admin dashboard.
func (s *CatalogStore) CountByTextbook(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Textbook string
		N        int64
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Model(&model.Word{}).
		Select("textbook, count(*) as n").
		Group("textbook").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Textbook] = r.N
	}
	return counts, nil
}

// UpsertBatch inserts or replaces catalog entries keyed by (word, textbook).
// Used by the workbook importer.
func (s *CatalogStore) UpsertBatch(ctx context.Context, words []model.Word) error {
	if len(words) == 0 {
		return nil
	}
	err := s.retry.Do(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for i := range words {
				w := &words[i]
				var existing model.Word
				err := tx.Where("word = ? AND textbook = ?", w.Word, w.Textbook).
					First(&existing).Error
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					if err := tx.Create(w).Error; err != nil {
						return err
					}
				case err != nil:
					return err
				default:
					w.ID = existing.ID
					if err := tx.Model(&existing).Updates(map[string]interface{}{
						"level":          w.Level,
						"part_of_speech": w.PartOfSpeech,
						"meaning":        w.Meaning,
						"example":        w.Example,
						"example_ja":     w.ExampleJa,
					}).Error; err != nil {
						return err
					}
				}
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
