package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

const activeUsersKey = "studylog:active"

// StudyLogBuffer holds flashcard outcomes in Redis between rollups, so every
// answered card is not a Postgres write. A scheduled flush folds the buffer
// into the study_log_daily table.
type StudyLogBuffer struct {
	client *redis.Client
}

func NewStudyLogBuffer(c *RedisCache) *StudyLogBuffer {
	return &StudyLogBuffer{client: c.client}
}

func studyLogKey(userID int64) string {
	return fmt.Sprintf("studylog:%d", userID)
}

// Append buffers one outcome and marks the user active for the next rollup.
func (b *StudyLogBuffer) Append(ctx context.Context, userID int64, entry model.StudyLogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	pipe := b.client.Pipeline()
	pipe.RPush(ctx, studyLogKey(userID), data)
	pipe.SAdd(ctx, activeUsersKey, userID)
	_, err = pipe.Exec(ctx)
	return err
}

// GetAll returns every buffered outcome for the user, oldest first.
func (b *StudyLogBuffer) GetAll(ctx context.Context, userID int64) ([]model.StudyLogEntry, error) {
	raw, err := b.client.LRange(ctx, studyLogKey(userID), 0, -1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entries := make([]model.StudyLogEntry, 0, len(raw))
	for _, item := range raw {
		var entry model.StudyLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			log.Printf("Skipping malformed study log entry for user %d: %v", userID, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Clear drops the user's buffer and active-set membership after a flush.
func (b *StudyLogBuffer) Clear(ctx context.Context, userID int64) error {
	pipe := b.client.Pipeline()
	pipe.Del(ctx, studyLogKey(userID))
	pipe.SRem(ctx, activeUsersKey, userID)
	_, err := pipe.Exec(ctx)
	return err
}

// ActiveUsers returns the IDs of users with buffered outcomes.
func (b *StudyLogBuffer) ActiveUsers(ctx context.Context) ([]int64, error) {
	members, err := b.client.SMembers(ctx, activeUsersKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	userIDs := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			log.Printf("Skipping malformed active user id %q: %v", m, err)
			continue
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, nil
}
