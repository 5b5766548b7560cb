package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/codyseavey/kit-tracker/internal/api/handlers"
)

func TestRateLimitWrites(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimitWrites(0.001, 2))
	router.POST("/write", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/read", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(method, path, user string) int {
		req := httptest.NewRequest(method, path, nil)
		if user != "" {
			req.Header.Set(UserHeader, user)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, "/write", "u1"))
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "/write", "u1"))
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, "/write", "u1"))

	// Reads are never throttled and buckets are per user
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "/read", "u1"))
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "/write", "u2"))
}

func TestRateLimitDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimitWrites(0, 0))
	router.POST("/write", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRequireUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/me", RequireUser(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(handlers.UserIDKey))
	})

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, ""},
		{"blank", "   ", http.StatusUnauthorized, ""},
		{"present", "user-42", http.StatusOK, "user-42"},
		{"trimmed", " user-42 ", http.StatusOK, "user-42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(UserHeader, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}
