package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/kit-tracker/internal/models"
	"github.com/codyseavey/kit-tracker/internal/services"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalog}
}

func (h *CatalogHandler) CreateKit(c *gin.Context) {
	var req models.CreateKitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kit, err := h.catalogService.CreateKit(currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, kit)
}

func (h *CatalogHandler) ListKits(c *gin.Context) {
	kits, err := h.catalogService.ListKits(c.Query("club"), queryInt(c, "limit", 0), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, kits)
}

func (h *CatalogHandler) GetKit(c *gin.Context) {
	kit, err := h.catalogService.GetKit(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, kit)
}

func (h *CatalogHandler) CreateVersion(c *gin.Context) {
	var req models.CreateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.catalogService.CreateVersion(currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, version)
}

func (h *CatalogHandler) ListVersions(c *gin.Context) {
	versions, err := h.catalogService.ListVersions(c.Query("kit_id"), queryInt(c, "limit", 0), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

func (h *CatalogHandler) GetVersion(c *gin.Context) {
	version, err := h.catalogService.GetVersion(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

// GetVersionEstimates aggregates what collectors estimate a version is worth
func (h *CatalogHandler) GetVersionEstimates(c *gin.Context) {
	if _, err := h.catalogService.GetVersion(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	estimates, err := h.catalogService.GetVersionEstimates(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimates)
}
