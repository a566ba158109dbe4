package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter limits requests per client IP. Counts live in Redis fixed
// windows; without Redis, or when Redis fails, an in-process token bucket
// per client takes over.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	log    *zap.Logger

	mu        sync.Mutex
	local     map[string]*localEntry
	stopClean chan struct{}
	stopOnce  sync.Once
}

// localEntry is a client's token bucket and when it was last used
type localEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewRateLimiter creates a new rate limiter instance. redisClient may be nil.
// It starts a goroutine that drops idle local buckets once per window; call
// Stop to end it.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig, log *zap.Logger) *RateLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit:api"
	}
	rl := &RateLimiter{
		redis:     redisClient,
		config:    config,
		log:       log,
		local:     make(map[string]*localEntry),
		stopClean: make(chan struct{}),
	}
	go rl.startCleanup(config.Window)
	return rl
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopClean)
	})
}

// startCleanup periodically removes stale local limiters
func (rl *RateLimiter) startCleanup(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			rl.cleanup(now)
		case <-rl.stopClean:
			return
		}
	}
}

// cleanup removes local limiters idle for longer than one window. Their
// buckets have refilled by then, so dropping them loses no state.
func (rl *RateLimiter) cleanup(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	threshold := now.Add(-rl.config.Window)
	removed := 0
	for clientID, entry := range rl.local {
		if entry.lastAccess.Before(threshold) {
			delete(rl.local, clientID)
			removed++
		}
	}
	if removed > 0 {
		rl.log.Debug("removed idle local rate limiters", zap.Int("count", removed), zap.Int("remaining", len(rl.local)))
	}
	return removed
}


// RateLimitMiddleware returns a Gin middleware that enforces rate limiting
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.ClientIP()

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), clientID)
		if err != nil {
			rl.log.Warn("rate limit check failed, using local limiter", zap.String("client", clientID), zap.Error(err))
			allowed, remaining, resetTime = rl.allowLocal(clientID)
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(math.Ceil(time.Until(resetTime).Seconds()))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"message":     fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", rl.config.Limit, rl.config.Window),
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}

// Policy returns the request limit and the window it applies to
func (rl *RateLimiter) Policy() (int, time.Duration) {
	return rl.config.Limit, rl.config.Window
}

// IsAllowed checks if a request from the given client is allowed
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, clientID string) (bool, int, time.Time, error) {
	if rl.redis == nil {
		allowed, remaining, reset := rl.allowLocal(clientID)
		return allowed, remaining, reset, nil
	}

	windowStart := time.Now().Truncate(rl.config.Window)
	key := rl.windowKey(clientID, windowStart)

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := max(rl.config.Limit-count, 0)
	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

// GetRemainingRequests returns the number of remaining requests for a client
// without counting a request.
func (rl *RateLimiter) GetRemainingRequests(ctx context.Context, clientID string) (int, time.Time, error) {
	if rl.redis == nil {
		rl.mu.Lock()
		entry, ok := rl.local[clientID]
		rl.mu.Unlock()
		if !ok {
			return rl.config.Limit, time.Now(), nil
		}
		now := time.Now()
		return max(int(entry.limiter.TokensAt(now)), 0), now.Add(rl.config.Window), nil
	}

	windowStart := time.Now().Truncate(rl.config.Window)
	resetTime := windowStart.Add(rl.config.Window)

	count, err := rl.redis.Get(ctx, rl.windowKey(clientID, windowStart)).Int()
	if err == redis.Nil {
		// No requests yet in this window
		return rl.config.Limit, resetTime, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}
	return max(rl.config.Limit-count, 0), resetTime, nil
}

func (rl *RateLimiter) windowKey(clientID string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, clientID, windowStart.Unix())
}

// localLimiter returns the token bucket of a client and marks it used. A full
// bucket holds Limit tokens and refills over one Window.
func (rl *RateLimiter) localLimiter(clientID string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.local[clientID]
	if !ok {
		every := rl.config.Window / time.Duration(max(rl.config.Limit, 1))
		entry = &localEntry{limiter: rate.NewLimiter(rate.Every(every), rl.config.Limit)}
		rl.local[clientID] = entry
	}
	entry.lastAccess = now
	return entry.limiter
}

func (rl *RateLimiter) allowLocal(clientID string) (bool, int, time.Time) {
	now := time.Now()
	lim := rl.localLimiter(clientID, now)
	allowed := lim.AllowN(now, 1)
	remaining := max(int(lim.TokensAt(now)), 0)

	// The next token arrives after one refill interval.
	reset := now.Add(time.Duration(float64(time.Second) / float64(lim.Limit())))
	return allowed, remaining, reset
}
