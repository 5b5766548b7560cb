package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/kit-tracker/internal/models"
	"github.com/codyseavey/kit-tracker/internal/services"
)

type WishlistHandler struct {
	wishlistService *services.WishlistService
}

func NewWishlistHandler(wishlist *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlist}
}

func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	items, err := h.wishlistService.List(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	var req models.AddToWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.wishlistService.Add(currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	if err := h.wishlistService.Remove(currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
}

func (h *WishlistHandler) CheckWishlist(c *gin.Context) {
	check, err := h.wishlistService.Check(currentUser(c), c.Param("version_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}
