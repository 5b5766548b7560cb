package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/kit-tracker/internal/estimation"
	"github.com/codyseavey/kit-tracker/internal/models"
	"github.com/codyseavey/kit-tracker/internal/services"
)

type EstimationHandler struct {
	estimationService *services.EstimationService
}

func NewEstimationHandler(estimation *services.EstimationService) *EstimationHandler {
	return &EstimationHandler{estimationService: estimation}
}

// Estimate previews the value of a jersey without saving anything
func (h *EstimationHandler) Estimate(c *gin.Context) {
	var req models.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.estimationService.Estimate(req.ToInput()))
}

// GetOptions returns the vocabularies and coefficient tables used by the form
func (h *EstimationHandler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"model_types":       estimation.ModelTypes(),
		"competitions":      estimation.Competitions(),
		"condition_origins": estimation.ConditionOrigins(),
		"physical_states":   estimation.PhysicalStates(),
		"flocking_origins":  estimation.FlockingOrigins(),
		"coefficients":      estimation.GetOptions(),
	})
}
