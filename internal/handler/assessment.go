package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sgtokt1221/tsukutan-app/internal/assessment"
	"github.com/sgtokt1221/tsukutan-app/internal/cache"
	"github.com/sgtokt1221/tsukutan-app/internal/model"
	"github.com/sgtokt1221/tsukutan-app/internal/planner"
	"github.com/sgtokt1221/tsukutan-app/internal/store"
)

type AssessmentHandler struct {
	db       *gorm.DB
	catalog  *store.CatalogStore
	textbook string
	plans    *cache.PlanCache
}

func NewAssessmentHandler(db *gorm.DB, catalog *store.CatalogStore, textbook string, plans *cache.PlanCache) *AssessmentHandler {
	return &AssessmentHandler{db: db, catalog: catalog, textbook: textbook, plans: plans}
}

// Start returns the placement test parameters and the first stage's
// question set.
func (h *AssessmentHandler) Start(c *gin.Context) {
	words, err := h.stageWords(c, assessment.StartLevel)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stageCount":        assessment.StageCount,
		"questionsPerStage": assessment.QuestionsPerStage,
		"startLevel":        assessment.StartLevel,
		"level":             assessment.StartLevel,
		"questions":         words,
	})
}

// Stage returns a question set for the given level, for stages after the
// first.
func (h *AssessmentHandler) Stage(c *gin.Context) {
	level, err := strconv.Atoi(c.Param("level"))
	if err != nil || level < model.MinLevel || level > model.MaxLevel {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid level"})
		return
	}

	words, err := h.stageWords(c, level)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"level":     level,
		"questions": words,
	})
}

type StageResultRequest struct {
	Level int `json:"level" binding:"required"`
	Score int `json:"score"`
}

// Advance applies one completed stage and returns the level for the next.
func (h *AssessmentHandler) Advance(c *gin.Context) {
	var req StageResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "level and score are required"})
		return
	}
	if req.Level < model.MinLevel || req.Level > model.MaxLevel {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid level"})
		return
	}
	if req.Score < 0 || req.Score > assessment.QuestionsPerStage {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid score"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nextLevel": assessment.NextLevel(req.Level, req.Score),
	})
}

type CompleteRequest struct {
	FinalLevel int `json:"finalLevel" binding:"required"`
}

// Complete stores the placement result on the learner's profile: level,
// estimated vocabulary, and a refreshed progress percentage.
func (h *AssessmentHandler) Complete(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "finalLevel is required"})
		return
	}
	if req.FinalLevel < model.MinLevel || req.FinalLevel > model.MaxLevel {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid level"})
		return
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	now := time.Now()
	user.Level = req.FinalLevel
	user.CurrentVocabulary = assessment.EstimatedVocabulary(req.FinalLevel)
	user.Percentage = planner.ProgressPercentage(user.CurrentVocabulary, user.TargetVocabulary)
	user.LastCheckedAt = &now

	if err := h.db.Save(&user).Error; err != nil {
		log.Printf("Failed to save placement result for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save result"})
		return
	}

	// The new level changes the candidate pool; drop today's cached plan
	if h.plans != nil {
		if err := h.plans.Invalidate(c.Request.Context(), user.ID, now); err != nil {
			log.Printf("Failed to invalidate plan cache for user %d: %v", user.ID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"level":             user.Level,
		"currentVocabulary": user.CurrentVocabulary,
		"percentage":        user.Percentage,
		"recommendedLevels": assessment.RecommendedLevels(user.Level),
	})
}

func (h *AssessmentHandler) stageWords(c *gin.Context, level int) ([]model.Word, error) {
	levels := []int{level}
	if level > model.MinLevel {
		levels = append(levels, level-1)
	}
	if level < model.MaxLevel {
		levels = append(levels, level+1)
	}

	pool, err := h.catalog.WordsAtLevels(c.Request.Context(), h.textbook, levels)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return nil, err
	}

	words := assessment.BuildStage(pool, level, assessment.QuestionsPerStage)
	if len(words) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no questions available for this level"})
		return nil, gorm.ErrRecordNotFound
	}
	return words, nil
}
