package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sgtokt1221/tsukutan-app/internal/cache"
	"github.com/sgtokt1221/tsukutan-app/internal/model"
	"github.com/sgtokt1221/tsukutan-app/internal/planner"
)

type ProfileHandler struct {
	db    *gorm.DB
	plans *cache.PlanCache
}

func NewProfileHandler(db *gorm.DB, plans *cache.PlanCache) *ProfileHandler {
	return &ProfileHandler{db: db, plans: plans}
}

// Get returns the learner's profile with the current progress snapshot.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListGoals returns the goal master catalog for the goal-setting screen.
func (h *ProfileHandler) ListGoals(c *gin.Context) {
	var goals []model.GoalMaster
	if err := h.db.Order("category, required_vocabulary").Find(&goals).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to load goals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

type SetGoalRequest struct {
	GoalIDs    []string `json:"goalIds" binding:"required"`
	TargetDate string   `json:"targetDate" binding:"required"`
}

// SetGoal stores the learner's goal selection and recomputes the progress
// snapshot against the new target.
func (h *ProfileHandler) SetGoal(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SetGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "goalIds and targetDate are required"})
		return
	}
	if len(req.GoalIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one goal is required"})
		return
	}
	if _, err := time.Parse("2006-01-02", req.TargetDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "targetDate must be YYYY-MM-DD"})
		return
	}

	var master []model.GoalMaster
	if err := h.db.Find(&master).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to load goals"})
		return
	}
	byID := make(map[string]model.GoalMaster, len(master))
	for _, g := range master {
		byID[g.ID] = g
	}

	targets := make([]model.GoalTarget, 0, len(req.GoalIDs))
	for _, id := range req.GoalIDs {
		g, ok := byID[id]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown goal: " + id})
			return
		}
		targets = append(targets, model.GoalTarget{GoalID: g.ID, DisplayName: g.DisplayName})
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	user.Goal = model.Goal{
		Targets:    targets,
		TargetDate: req.TargetDate,
		IsSet:      true,
	}
	user.TargetVocabulary = planner.TargetVocabulary(targets, master)
	user.Percentage = planner.ProgressPercentage(user.CurrentVocabulary, user.TargetVocabulary)

	if err := h.db.Save(&user).Error; err != nil {
		log.Printf("Failed to save goal for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save goal"})
		return
	}

	// The new deadline changes today's quota; drop the cached plan
	if h.plans != nil {
		if err := h.plans.Invalidate(c.Request.Context(), user.ID, time.Now()); err != nil {
			log.Printf("Failed to invalidate plan cache for user %d: %v", user.ID, err)
		}
	}

	c.JSON(http.StatusOK, user)
}

// Progress returns the dashboard progress snapshot.
func (h *ProfileHandler) Progress(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"level":             user.Level,
		"currentVocabulary": user.CurrentVocabulary,
		"targetVocabulary":  user.TargetVocabulary,
		"percentage":        user.Percentage,
		"lastCheckedAt":     user.LastCheckedAt,
		"goal":              user.Goal,
	})
}
