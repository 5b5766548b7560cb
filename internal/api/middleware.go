package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/codyseavey/kit-tracker/internal/api/handlers"
	"github.com/codyseavey/kit-tracker/internal/metrics"
)

// UserHeader carries the caller's identity, set by the fronting auth proxy
const UserHeader = "X-User-ID"

// maxTrackedClients bounds the number of per-client limiters kept in memory
const maxTrackedClients = 4096

// RequestMetrics records request counts and latency per route
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RequestLogger logs each request through zerolog
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// RequireUser rejects requests without an X-User-ID header and exposes the
// ID to handlers under handlers.UserIDKey
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserHeader))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + UserHeader + " header"})
			return
		}
		c.Set(handlers.UserIDKey, userID)
		c.Next()
	}
}

// RateLimitWrites throttles mutating requests with a token bucket per client.
// A non-positive rps disables limiting.
func RateLimitWrites(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}

	limiters, _ := lru.New[string, *rate.Limiter](maxTrackedClients)

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		key := c.GetHeader(UserHeader)
		if key == "" {
			key = c.ClientIP()
		}
		limiter, ok := limiters.Get(key)
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
			limiters.Add(key, limiter)
		}

		if !limiter.Allow() {
			metrics.HTTPRateLimited.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
