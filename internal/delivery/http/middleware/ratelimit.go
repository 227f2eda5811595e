package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"skill-swap/internal/metrics"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"
)

type RateLimiterConfig struct {
	GeneralRate     rate.Limit
	GeneralBurst    int
	SwapCreateRate  rate.Limit
	SwapCreateBurst int
	CleanupInterval time.Duration
}

// NewRateLimiterConfig converts per-minute quotas into token bucket settings.
// A non-positive quota disables that limiter.
func NewRateLimiterConfig(generalPerMinute, swapCreatePerMinute int) RateLimiterConfig {
	cfg := RateLimiterConfig{
		GeneralRate:     rate.Inf,
		SwapCreateRate:  rate.Inf,
		CleanupInterval: 5 * time.Minute,
	}
	if generalPerMinute > 0 {
		cfg.GeneralRate = rate.Limit(float64(generalPerMinute) / 60.0)
		cfg.GeneralBurst = generalPerMinute
	}
	if swapCreatePerMinute > 0 {
		cfg.SwapCreateRate = rate.Limit(float64(swapCreatePerMinute) / 60.0)
		cfg.SwapCreateBurst = swapCreatePerMinute
	}
	return cfg
}

type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*userLimiter
	rate     rate.Limit
	burst    int
}

func newLimiterSet(r rate.Limit, burst int) *limiterSet {
	return &limiterSet{limiters: make(map[string]*userLimiter), rate: r, burst: burst}
}

func (s *limiterSet) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ul, ok := s.limiters[key]; ok {
		ul.lastAccess = now
		return ul.limiter
	}
	l := rate.NewLimiter(s.rate, s.burst)
	s.limiters[key] = &userLimiter{limiter: l, lastAccess: now}
	return l
}

func (s *limiterSet) evictIdle(now time.Time, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, ul := range s.limiters {
		if now.Sub(ul.lastAccess) > ttl {
			delete(s.limiters, key)
		}
	}
}

func (s *limiterSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// RateLimiter keeps one token bucket per caller for general API use and a
// separate, stricter one for swap creation. Callers are keyed by their
// identity provider subject, so it must run after the auth middleware.
type RateLimiter struct {
	config  RateLimiterConfig
	general *limiterSet
	create  *limiterSet
	metrics metrics.Recorder

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(config RateLimiterConfig, rec metrics.Recorder) *RateLimiter {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	rl := &RateLimiter{
		config:  config,
		general: newLimiterSet(config.GeneralRate, config.GeneralBurst),
		create:  newLimiterSet(config.SwapCreateRate, config.SwapCreateBurst),
		metrics: rec,
		stopCh:  make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *RateLimiter) GeneralMiddleware() fiber.Handler {
	return rl.middleware(rl.general, rl.config.GeneralRate, "general")
}

func (rl *RateLimiter) SwapCreateMiddleware() fiber.Handler {
	return rl.middleware(rl.create, rl.config.SwapCreateRate, "swap_create")
}

func (rl *RateLimiter) middleware(set *limiterSet, r rate.Limit, scope string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if r == rate.Inf {
			return c.Next()
		}
		caller := CallerFrom(c)
		if !caller.Authenticated() {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		if !set.get(caller.ExternalID, time.Now()).Allow() {
			rl.metrics.RecordRateLimited(scope)
			c.Set("Retry-After", strconv.Itoa(retryAfterSeconds(r)))
			return NewAppError(fiber.StatusTooManyRequests, "Too many requests, please retry later", nil, nil)
		}
		return c.Next()
	}
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			ttl := rl.config.CleanupInterval * 2
			rl.general.evictIdle(now, ttl)
			rl.create.evictIdle(now, ttl)
		case <-rl.stopCh:
			return
		}
	}
}

// retryAfterSeconds estimates how long until one token refills.
func retryAfterSeconds(r rate.Limit) int {
	if r <= 0 {
		return 60
	}
	// epsilon absorbs float error from per-minute conversion
	sec := int(math.Ceil(1.0/float64(r) - 1e-9))
	if sec < 1 {
		sec = 1
	}
	return sec
}
