package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sgtokt1221/tsukutan-app/internal/client"
	"github.com/sgtokt1221/tsukutan-app/internal/filter"
	"github.com/sgtokt1221/tsukutan-app/internal/middleware"
	"github.com/sgtokt1221/tsukutan-app/internal/model"
	"github.com/sgtokt1221/tsukutan-app/internal/store"
)

// One story per calendar month per learner. Generation is expensive.
const storyWordLimit = 20

type StoryHandler struct {
	db        *gorm.DB
	catalog   *store.CatalogStore
	llmClient *client.LLMClient
}

func NewStoryHandler(db *gorm.DB, catalog *store.CatalogStore, llmClient *client.LLMClient) *StoryHandler {
	return &StoryHandler{db: db, catalog: catalog, llmClient: llmClient}
}

type StoryRequest struct {
	WordIDs []string `json:"wordIds" binding:"required"`
}

// Generate produces a short story from the learner's chosen words. Limited to
// one generation per calendar month.
func (h *StoryHandler) Generate(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wordIds is required"})
		return
	}
	if len(req.WordIDs) == 0 || len(req.WordIDs) > storyWordLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "between 1 and 20 words are required"})
		return
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	now := time.Now()
	if user.LastStoryGeneration != nil && sameMonth(*user.LastStoryGeneration, now) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "story generation limit reached for this month",
			"code":  "MONTHLY_LIMIT_REACHED",
		})
		return
	}

	words, err := h.catalog.GetByIDs(c.Request.Context(), req.WordIDs)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	if len(words) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no matching words"})
		return
	}

	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Word
	}

	start := time.Now()
	story, err := h.llmClient.GenerateStory(c.Request.Context(), texts, user.Level)
	middleware.RecordStoryGeneration(err == nil, time.Since(start))
	if err != nil {
		log.Printf("Story generation failed for user %d: %v", user.ID, err)
		errMsg := err.Error()
		if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please wait a moment.",
				"code":  "RATE_LIMIT_EXCEEDED",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate story"})
		return
	}

	if err := h.db.Model(&user).Update("last_story_generation", now).Error; err != nil {
		log.Printf("Failed to stamp story generation for user %d: %v", user.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"story":        story.Story,
		"translation":  story.Translation,
		"missingWords": filter.MissingWords(story.Story, texts),
	})
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
