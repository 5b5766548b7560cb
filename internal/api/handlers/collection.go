package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/kit-tracker/internal/models"
	"github.com/codyseavey/kit-tracker/internal/services"
)

type CollectionHandler struct {
	collectionService *services.CollectionService
	snapshotService   *services.SnapshotService
}

func NewCollectionHandler(collection *services.CollectionService, snapshot *services.SnapshotService) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collection,
		snapshotService:   snapshot,
	}
}

func (h *CollectionHandler) GetCollection(c *gin.Context) {
	items, err := h.collectionService.List(currentUser(c), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CollectionHandler) GetCategories(c *gin.Context) {
	categories, err := h.collectionService.Categories(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// AddToCollection saves a jersey. Any client-supplied price is ignored; the
// estimate is always recomputed server-side.
func (h *CollectionHandler) AddToCollection(c *gin.Context) {
	var req models.AddToCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.collectionService.Add(currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CollectionHandler) UpdateCollectionItem(c *gin.Context) {
	var req models.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.collectionService.Update(currentUser(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CollectionHandler) DeleteCollectionItem(c *gin.Context) {
	if err := h.collectionService.Remove(currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Jersey removed from collection"})
}

func (h *CollectionHandler) GetStats(c *gin.Context) {
	stats, err := h.collectionService.Stats(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *CollectionHandler) GetCategoryStats(c *gin.Context) {
	stats, err := h.collectionService.CategoryStats(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetValueHistory returns collection value snapshots for ?period=week|month|3month|year|all
func (h *CollectionHandler) GetValueHistory(c *gin.Context) {
	period := services.NormalizePeriod(c.DefaultQuery("period", "month"))

	snapshots, err := h.snapshotService.History(currentUser(c), period)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ValueHistoryResponse{
		Snapshots: snapshots,
		Period:    period,
	})
}
