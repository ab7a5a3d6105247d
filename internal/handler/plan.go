package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sgtokt1221/tsukutan-app/internal/middleware"
	"github.com/sgtokt1221/tsukutan-app/internal/planner"
)

type PlanHandler struct {
	generator *planner.Generator
}

func NewPlanHandler(generator *planner.Generator) *PlanHandler {
	return &PlanHandler{generator: generator}
}

// Get returns today's plan for the authenticated learner, generating it on
// first request of the day.
func (h *PlanHandler) Get(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	plan, err := h.generator.Generate(c.Request.Context(), userID.(int64))
	if err != nil {
		middleware.RecordPlanGeneration(false)
		if errors.Is(err, planner.ErrProfileUnavailable) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		log.Printf("Plan generation failed for user %d: %v", userID.(int64), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate plan"})
		return
	}

	middleware.RecordPlanGeneration(true)
	c.JSON(http.StatusOK, plan)
}
