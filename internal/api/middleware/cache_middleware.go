package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CacheMiddleware serves GET responses from Redis and invalidates entries
// after successful mutations.
type CacheMiddleware struct {
	redis  *cache.RedisClient
	prefix string
	ttl    time.Duration
}

func NewCacheMiddleware(redis *cache.RedisClient, prefix string, ttl time.Duration) *CacheMiddleware {
	return &CacheMiddleware{redis: redis, prefix: prefix, ttl: ttl}
}

// teeWriter copies everything written to the client into a buffer so the
// finished response can be cached.
type teeWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *teeWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *teeWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheResponse replays a cached body when present, otherwise captures
// and stores the response on a 200.
func (m *CacheMiddleware) CacheResponse() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := m.requestKey(c)
		resource := resourceFromPath(c.Request.URL.Path)

		if body, err := m.redis.Get(c, key); err == nil && body != "" {
			m.redis.TrackHit(resource)
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(body))
			c.Abort()
			return
		}
		m.redis.TrackMiss(resource)

		tee := &teeWriter{ResponseWriter: c.Writer}
		c.Writer = tee
		c.Next()
		c.Writer = tee.ResponseWriter

		if tee.Status() != http.StatusOK {
			return
		}
		if err := m.redis.Set(c, key, tee.buf.String(), m.ttl); err != nil {
			log.Error("Failed to cache response",
				zap.String("key", key), zap.Error(err))
		}
	}
}

// CacheInvalidate clears matching cache entries once the wrapped mutation
// has succeeded.
func (m *CacheMiddleware) CacheInvalidate(patterns ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		for _, pattern := range patterns {
			full := fmt.Sprintf("%s:%s", m.prefix, pattern)
			if err := m.redis.ClearByPattern(c, full); err != nil {
				log.Error("Failed to invalidate cache",
					zap.String("pattern", full), zap.Error(err))
			}
		}
	}
}

// requestKey scopes the cache entry to resource, entity vs list, query
// string, and the authenticated user.
func (m *CacheMiddleware) requestKey(c *gin.Context) string {
	parts := []string{m.prefix, resourceFromPath(c.Request.URL.Path)}

	segments := strings.Split(strings.Trim(c.Request.URL.Path, "/"), "/")
	if len(segments) >= 3 {
		if _, err := uuid.Parse(segments[2]); err == nil {
			parts = append(parts, "id", segments[2])
		} else {
			parts = append(parts, "list", segments[2])
		}
	} else {
		parts = append(parts, "list")
	}

	if q := c.Request.URL.RawQuery; q != "" {
		parts = append(parts, q)
	}
	if userID, _ := GetUserID(c); userID != uuid.Nil {
		parts = append(parts, userID.String())
	}
	return strings.Join(parts, ":")
}

func resourceFromPath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) >= 2 {
		return segments[1]
	}
	return "unknown"
}
