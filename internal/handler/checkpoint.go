package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

type CheckpointHandler struct {
	db *gorm.DB
}

func NewCheckpointHandler(db *gorm.DB) *CheckpointHandler {
	return &CheckpointHandler{db: db}
}

type SaveCheckpointRequest struct {
	Mode     string         `json:"mode" binding:"required"`
	Position int            `json:"position"`
	WordIDs  []string       `json:"wordIds"`
	State    datatypes.JSON `json:"state"`
}

// Save overwrites the learner's resume state. One checkpoint per user.
func (h *CheckpointHandler) Save(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SaveCheckpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode is required"})
		return
	}

	switch req.Mode {
	case model.CheckpointLearn, model.CheckpointReview, model.CheckpointTest:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mode"})
		return
	}

	checkpoint := model.SessionCheckpoint{
		UserID:   userID.(int64),
		Mode:     req.Mode,
		Position: req.Position,
		WordIDs:  req.WordIDs,
		State:    req.State,
	}

	err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"mode", "position", "word_ids", "state", "updated_at"}),
	}).Create(&checkpoint).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save checkpoint"})
		return
	}

	c.JSON(http.StatusOK, checkpoint)
}

// Get returns the learner's saved resume state, if any.
func (h *CheckpointHandler) Get(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var checkpoint model.SessionCheckpoint
	if err := h.db.Where("user_id = ?", userID).First(&checkpoint).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no checkpoint"})
		return
	}

	c.JSON(http.StatusOK, checkpoint)
}

// Clear removes the learner's resume state. Clearing nothing succeeds.
func (h *CheckpointHandler) Clear(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	h.db.Where("user_id = ?", userID).Delete(&model.SessionCheckpoint{})
	c.JSON(http.StatusOK, gin.H{"message": "cleared"})
}
