package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

// ProfileStore reads and mutates learner profiles.
type ProfileStore struct {
	db    *gorm.DB
	retry RetryPolicy
}

func NewProfileStore(db *gorm.DB, retry RetryPolicy) *ProfileStore {
	return &ProfileStore{db: db, retry: retry}
}

func (s *ProfileStore) Get(ctx context.Context, userID int64) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &user, nil
}

func (s *ProfileStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &user, nil
}

func (s *ProfileStore) GetByStudentID(ctx context.Context, studentID string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("student_id = ?", studentID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &user, nil
}

func (s *ProfileStore) Create(ctx context.Context, user *model.User) error {
	err := s.retry.Do(ctx, func() error {
		return s.db.WithContext(ctx).Create(user).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *ProfileStore) Save(ctx context.Context, user *model.User) error {
	err := s.retry.Do(ctx, func() error {
		return s.db.WithContext(ctx).Save(user).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Updates applies a partial update to the user row.
func (s *ProfileStore) Updates(ctx context.Context, userID int64, fields map[string]interface{}) error {
	err := s.retry.Do(ctx, func() error {
		return s.db.WithContext(ctx).
			Model(&model.User{}).
			Where("id = ?", userID).
			Updates(fields).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// ListStudents returns all student accounts, newest first.
func (s *ProfileStore) ListStudents(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).
		Where("role = ?", model.RoleStudent).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return users, nil
}

func (s *ProfileStore) CountStudents(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("role = ?", model.RoleStudent).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n, nil
}

// GoalStore reads the goal master catalog.
type GoalStore struct {
	db *gorm.DB
}

func NewGoalStore(db *gorm.DB) *GoalStore {
	return &GoalStore{db: db}
}

func (s *GoalStore) List(ctx context.Context) ([]model.GoalMaster, error) {
	var goals []model.GoalMaster
	err := s.db.WithContext(ctx).Order("category, required_vocabulary").Find(&goals).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return goals, nil
}

func (s *GoalStore) UpsertAll(ctx context.Context, goals []model.GoalMaster) error {
	for i := range goals {
		if err := s.db.WithContext(ctx).Save(&goals[i]).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return nil
}
