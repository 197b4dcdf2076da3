package middleware

import (
	"net/http"
	"sync"
	"time"

	"ledgercore/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per IP within a sliding window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

var (
	rateMap   = make(map[string]*rateEntry)
	rateMapMu sync.Mutex
)

// RateLimiter returns a general-purpose sliding-window rate limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rateMapMu.Lock()
		entry, exists := rateMap[ip]
		if !exists {
			entry = &rateEntry{}
			rateMap[ip] = entry
		}
		rateMapMu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}

		entry.count++
		if entry.count > limit {
			c.Header("Retry-After", entry.windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, retry shortly"))
			return
		}
		c.Next()
	}
}

// Periodically removes expired entries so the map does not accumulate IPs
// that never return.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredEntries()
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		rateMapMu.Lock()
		purged := 0
		for ip, entry := range rateMap {
			entry.mu.Lock()
			if now.After(entry.windowEnd) {
				delete(rateMap, ip)
				purged++
			}
			entry.mu.Unlock()
		}
		rateMapMu.Unlock()

		if purged > 0 {
			log.Debug().
				Int("entries_purged", purged).
				Int("entries_remaining", len(rateMap)).
				Msg("rate limiter map purged")
		}
	}
}
