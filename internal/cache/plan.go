package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

// Cached plans expire on their own even if eviction is missed.
const planTTL = 26 * time.Hour

// PlanCache stores one generated daily plan per learner per calendar day.
// The review ledger in Postgres stays the source of truth; a lost or stale
// cache entry only costs a regeneration.
type PlanCache struct {
	client *redis.Client
}

func NewPlanCache(c *RedisCache) *PlanCache {
	return &PlanCache{client: c.client}
}

// PlanKey generates a plan cache key from user and day
// Format: "plan:userID:YYYY-MM-DD" (e.g., "plan:42:2026-08-29")
func PlanKey(userID int64, day time.Time) string {
	return fmt.Sprintf("plan:%d:%s", userID, day.Format("2006-01-02"))
}

func (c *PlanCache) Get(ctx context.Context, userID int64, day time.Time) (*model.DailyPlan, error) {
	data, err := c.client.Get(ctx, PlanKey(userID, day)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var plan model.DailyPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *PlanCache) Put(ctx context.Context, userID int64, day time.Time, plan *model.DailyPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, PlanKey(userID, day), data, planTTL).Err()
}

// AddReview injects an item into the day's cached review set. No-op when no
// plan is cached or the item is already present.
func (c *PlanCache) AddReview(ctx context.Context, userID int64, day time.Time, item model.ReviewItem) error {
	plan, err := c.Get(ctx, userID, day)
	if err != nil || plan == nil {
		return err
	}
	if plan.ContainsReview(item.Word.ID) {
		return nil
	}
	plan.ReviewWords = append(plan.ReviewWords, item)
	return c.Put(ctx, userID, day, plan)
}

// RemoveWord evicts an item from the day's cached review set. No-op when no
// plan is cached or the item is absent.
func (c *PlanCache) RemoveWord(ctx context.Context, userID int64, day time.Time, wordID string) error {
	plan, err := c.Get(ctx, userID, day)
	if err != nil || plan == nil {
		return err
	}
	if !plan.RemoveReview(wordID) {
		return nil
	}
	return c.Put(ctx, userID, day, plan)
}

func (c *PlanCache) Invalidate(ctx context.Context, userID int64, day time.Time) error {
	return c.client.Del(ctx, PlanKey(userID, day)).Err()
}
