package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	metaStartKey = "meta_start"
	cacheHitKey  = "cache_hit"
)

// WithResponseMeta records the request start time so handlers can attach
// timing metadata to their responses.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(metaStartKey, time.Now())
		c.Next()
	}
}

// SetCacheHit records whether the response was served from the cache.
func SetCacheHit(c *gin.Context, hit bool) {
	c.Set(cacheHitKey, hit)
}

// ExtractMeta assembles the metadata map attached to cached responses.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	meta := make(map[string]interface{})
	if start, exists := c.Get(metaStartKey); exists {
		if ts, ok := start.(time.Time); ok {
			meta["processing_time_ms"] = time.Since(ts).Milliseconds()
		}
	}
	if hit, exists := c.Get(cacheHitKey); exists {
		meta[cacheHitKey] = hit
	}
	return meta
}
