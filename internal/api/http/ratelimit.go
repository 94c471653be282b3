package http

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apperrors "github.com/foundit/lostfound-service/pkg/util/errorutil"
)

const (
	rateLimitKeyPrefix = "ratelimit:auth:"
	maxLocalBuckets    = 10000
)

// RateLimiter throttles a route group per client IP. It counts in a Redis
// fixed window when a client is supplied and falls back to in-process token
// buckets when Redis is absent or failing.
type RateLimiter struct {
	redis    *redis.Client
	requests int
	window   time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	buckets map[string]*localBucket
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter builds a limiter allowing requests per window per IP.
func NewRateLimiter(client *redis.Client, requests int, window time.Duration, logger *zap.Logger) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{
		redis:    client,
		requests: requests,
		window:   window,
		logger:   logger,
		buckets:  make(map[string]*localBucket),
	}
}

// Handle is the fiber middleware.
func (l *RateLimiter) Handle(c *fiber.Ctx) error {
	if !l.Allow(c.UserContext(), c.IP()) {
		return apperrors.NewRateLimited("Too many requests, please try again later")
	}
	return c.Next()
}

// Allow reports whether key may proceed.
func (l *RateLimiter) Allow(ctx context.Context, key string) bool {
	if l.redis != nil {
		allowed, err := l.allowRedis(ctx, key)
		if err == nil {
			return allowed
		}
		l.logger.Warn("redis rate limit unavailable; using local limiter", zap.Error(err))
	}
	return l.allowLocal(key)
}

func (l *RateLimiter) allowRedis(ctx context.Context, key string) (bool, error) {
	redisKey := rateLimitKeyPrefix + key
	count, err := l.redis.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(l.requests), nil
}

func (l *RateLimiter) allowLocal(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= maxLocalBuckets {
			l.sweep(now)
		}
		every := rate.Every(l.window / time.Duration(l.requests))
		bucket = &localBucket{limiter: rate.NewLimiter(every, l.requests)}
		l.buckets[key] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter.AllowN(now, 1)
}

// sweep drops buckets idle for a full window; such buckets are refilled anyway.
func (l *RateLimiter) sweep(now time.Time) {
	for key, bucket := range l.buckets {
		if now.Sub(bucket.lastSeen) > l.window {
			delete(l.buckets, key)
		}
	}
}
