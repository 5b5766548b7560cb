package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/codyseavey/kit-tracker/internal/services"
)

// UserIDKey is the gin context key holding the authenticated user's ID
const UserIDKey = "user_id"

func currentUser(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// respondError maps service errors to HTTP responses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrKitNotFound),
		errors.Is(err, services.ErrVersionNotFound),
		errors.Is(err, services.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyInCollection),
		errors.Is(err, services.ErrAlreadyInWishlist),
		errors.Is(err, services.ErrNoFieldsToUpdate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
