package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sgtokt1221/tsukutan-app/internal/cache"
	"github.com/sgtokt1221/tsukutan-app/internal/middleware"
	"github.com/sgtokt1221/tsukutan-app/internal/model"
	"github.com/sgtokt1221/tsukutan-app/internal/srs"
	"github.com/sgtokt1221/tsukutan-app/internal/store"
)

type ReviewHandler struct {
	ledger   *srs.Ledger
	records  *store.LedgerStore
	catalog  *store.CatalogStore
	studyLog *cache.StudyLogBuffer
}

func NewReviewHandler(ledger *srs.Ledger, records *store.LedgerStore, catalog *store.CatalogStore, studyLog *cache.StudyLogBuffer) *ReviewHandler {
	return &ReviewHandler{
		ledger:   ledger,
		records:  records,
		catalog:  catalog,
		studyLog: studyLog,
	}
}

type OutcomeRequest struct {
	WordID  string `json:"wordId" binding:"required"`
	Correct *bool  `json:"correct" binding:"required"`
}

// RecordOutcome applies one answered flashcard: SM-2 advance for a tracked
// word, fresh insertion for an untracked one.
func (h *ReviewHandler) RecordOutcome(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req OutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wordId and correct are required"})
		return
	}

	word, err := h.catalog.Get(c.Request.Context(), req.WordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "word not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}

	rec, err := h.ledger.RecordOutcome(c.Request.Context(), userID.(int64), *word, *req.Correct)
	if err != nil {
		log.Printf("Failed to record outcome for user %d word %s: %v", userID.(int64), req.WordID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to record outcome, please retry"})
		return
	}

	middleware.RecordReviewOutcome(*req.Correct)

	if h.studyLog != nil {
		entry := model.StudyLogEntry{
			WordID:  word.ID,
			Word:    word.Word,
			Correct: *req.Correct,
			At:      time.Now(),
		}
		if err := h.studyLog.Append(c.Request.Context(), userID.(int64), entry); err != nil {
			log.Printf("Study log append failed for user %d: %v", userID.(int64), err)
		}
	}

	c.JSON(http.StatusOK, rec)
}

type AddWordRequest struct {
	WordID string `json:"wordId" binding:"required"`
}

// AddWord explicitly inserts a word into the review ledger, due immediately.
func (h *ReviewHandler) AddWord(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req AddWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wordId is required"})
		return
	}

	word, err := h.catalog.Get(c.Request.Context(), req.WordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "word not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}

	rec, err := h.ledger.InsertNew(c.Request.Context(), userID.(int64), *word)
	if err != nil {
		log.Printf("Failed to add review word for user %d: %v", userID.(int64), err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to add word, please retry"})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// RemoveWord deletes a mastered word from the ledger. Removing an absent
// record succeeds.
func (h *ReviewHandler) RemoveWord(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	wordID := c.Param("wordId")
	if err := h.ledger.RemoveMastered(c.Request.Context(), userID.(int64), wordID); err != nil {
		log.Printf("Failed to remove review word for user %d: %v", userID.(int64), err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to remove word, please retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}

// ListDue returns the learner's currently due review items, oldest-due first.
func (h *ReviewHandler) ListDue(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	items, err := h.ledger.FetchDue(c.Request.Context(), userID.(int64), time.Now())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ledger unavailable"})
		return
	}
	if items == nil {
		items = []model.ReviewItem{}
	}

	c.JSON(http.StatusOK, gin.H{"reviews": items, "count": len(items)})
}

// ListAll returns the learner's full ledger, for the word-list screen.
func (h *ReviewHandler) ListAll(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	items, err := h.records.All(c.Request.Context(), userID.(int64))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ledger unavailable"})
		return
	}
	if items == nil {
		items = []model.ReviewItem{}
	}

	c.JSON(http.StatusOK, gin.H{"reviews": items, "count": len(items)})
}
