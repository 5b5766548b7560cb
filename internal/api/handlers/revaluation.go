package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/kit-tracker/internal/services"
)

type RevaluationHandler struct {
	revaluationWorker *services.RevaluationWorker
}

func NewRevaluationHandler(worker *services.RevaluationWorker) *RevaluationHandler {
	return &RevaluationHandler{
		revaluationWorker: worker,
	}
}

// GetRevaluationStatus reports worker progress and how many estimates are stale
func (h *RevaluationHandler) GetRevaluationStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.revaluationWorker.GetStatus())
}

// QueueRevaluation schedules the caller's whole collection for re-estimation
func (h *RevaluationHandler) QueueRevaluation(c *gin.Context) {
	position := h.revaluationWorker.QueueUser(currentUser(c))
	c.JSON(http.StatusAccepted, gin.H{
		"message":        "Collection queued for revaluation",
		"queue_position": position,
	})
}
