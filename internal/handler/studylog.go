package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sgtokt1221/tsukutan-app/internal/cache"
	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

type StudyLogHandler struct {
	db     *gorm.DB
	buffer *cache.StudyLogBuffer
}

func NewStudyLogHandler(db *gorm.DB, buffer *cache.StudyLogBuffer) *StudyLogHandler {
	return &StudyLogHandler{db: db, buffer: buffer}
}

// FlushUser folds a user's Redis study-log buffer into the study_log_daily
// table, grouped by calendar day.
func (h *StudyLogHandler) FlushUser(ctx context.Context, userID int64) error {
	entries, err := h.buffer.GetAll(ctx, userID)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		return nil
	}

	// Group entries by date
	dateGroups := make(map[string][]model.StudyLogEntry)
	for _, entry := range entries {
		dateStr := entry.At.Format("2006-01-02")
		dateGroups[dateStr] = append(dateGroups[dateStr], entry)
	}

	for dateStr, dayEntries := range dateGroups {
		date, _ := time.Parse("2006-01-02", dateStr)

		var daily model.StudyLogDaily
		err := h.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&daily).Error

		if err == gorm.ErrRecordNotFound {
			daily = model.StudyLogDaily{
				UserID:  userID,
				Date:    date,
				Entries: model.StudyLogEntries{},
			}
		} else if err != nil {
			log.Printf("Failed to query daily study log: %v", err)
			continue
		}

		for _, entry := range dayEntries {
			daily.Append(entry)
		}

		err = h.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"entries", "updated_at"}),
		}).Create(&daily).Error

		if err != nil {
			log.Printf("Failed to upsert daily study log: %v", err)
			continue
		}
	}

	// Clear Redis buffer after successful flush
	if err := h.buffer.Clear(ctx, userID); err != nil {
		log.Printf("Failed to clear study log buffer for user %d: %v", userID, err)
	}

	return nil
}

// FlushAll flushes every active user's buffer. Called by the rollup scheduler.
func (h *StudyLogHandler) FlushAll(ctx context.Context) (int, error) {
	userIDs, err := h.buffer.ActiveUsers(ctx)
	if err != nil {
		return 0, err
	}

	flushedCount := 0
	for _, userID := range userIDs {
		if err := h.FlushUser(ctx, userID); err != nil {
			log.Printf("Failed to flush study log for user %d: %v", userID, err)
			continue
		}
		flushedCount++
	}

	return flushedCount, nil
}

type DailyActivity struct {
	Date      string `json:"date"`
	Total     int    `json:"total"`
	Correct   int    `json:"correct"`
	Incorrect int    `json:"incorrect"`
}

// List returns the learner's per-day activity summary, newest first.
func (h *StudyLogHandler) List(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	uid := userID.(int64)

	// Flush the buffer first so today's answers are included
	if err := h.FlushUser(c.Request.Context(), uid); err != nil {
		log.Printf("Failed to flush study log for user %d: %v", uid, err)
	}

	var dailyRecords []model.StudyLogDaily
	h.db.Where("user_id = ?", uid).Order("date DESC").Find(&dailyRecords)

	activity := make([]DailyActivity, 0, len(dailyRecords))
	for _, daily := range dailyRecords {
		correct, incorrect := daily.Counts()
		activity = append(activity, DailyActivity{
			Date:      daily.Date.Format("2006-01-02"),
			Total:     len(daily.Entries),
			Correct:   correct,
			Incorrect: incorrect,
		})
	}

	c.JSON(http.StatusOK, gin.H{"days": activity, "totalDays": len(activity)})
}

// GetDateDetail returns the full entry list for one day.
func (h *StudyLogHandler) GetDateDetail(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	uid := userID.(int64)
	dateStr := c.Param("date")

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}

	if err := h.FlushUser(c.Request.Context(), uid); err != nil {
		log.Printf("Failed to flush study log for user %d: %v", uid, err)
	}

	var daily model.StudyLogDaily
	if err := h.db.Where("user_id = ? AND date = ?", uid, date).First(&daily).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"date": dateStr, "entries": []model.StudyLogEntry{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": dateStr, "entries": daily.Entries})
}
