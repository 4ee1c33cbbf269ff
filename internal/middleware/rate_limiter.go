package middleware

import (
	"context"
	"sync"
	"time"
)

// RateLimiter caps how many answers each participant may submit per window.
type RateLimiter struct {
	userLimits map[int64]*userLimit
	mu         sync.RWMutex

	userMaxRequests int
	window          time.Duration
	now             func() time.Time
}

type userLimit struct {
	requests  int
	resetTime time.Time
}

// NewRateLimiter creates a limiter allowing userMaxRequests per window.
// A non-positive userMaxRequests disables limiting.
func NewRateLimiter(userMaxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		userLimits:      make(map[int64]*userLimit),
		userMaxRequests: userMaxRequests,
		window:          window,
		now:             time.Now,
	}
}

// CheckUserLimit records one request and reports whether it is allowed.
func (rl *RateLimiter) CheckUserLimit(userID int64) bool {
	if rl.userMaxRequests <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	limit, exists := rl.userLimits[userID]
	if !exists || now.After(limit.resetTime) {
		rl.userLimits[userID] = &userLimit{
			requests:  1,
			resetTime: now.Add(rl.window),
		}
		return true
	}

	if limit.requests >= rl.userMaxRequests {
		return false
	}

	limit.requests++
	return true
}

// GetUserRemaining returns remaining requests for user
func (rl *RateLimiter) GetUserRemaining(userID int64) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	limit, exists := rl.userLimits[userID]
	if !exists || rl.now().After(limit.resetTime) {
		return rl.userMaxRequests
	}

	remaining := rl.userMaxRequests - limit.requests
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RetryAfter reports how long userID has to wait before the window resets.
func (rl *RateLimiter) RetryAfter(userID int64) time.Duration {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	limit, exists := rl.userLimits[userID]
	if !exists {
		return 0
	}
	if wait := limit.resetTime.Sub(rl.now()); wait > 0 {
		return wait
	}
	return 0
}

// RunCleanup drops expired entries every interval until ctx is done.
func (rl *RateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for userID, limit := range rl.userLimits {
		if now.After(limit.resetTime) {
			delete(rl.userLimits, userID)
		}
	}
}

// Reset clears all rate limits. The quiz reset command calls it.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.userLimits = make(map[int64]*userLimit)
}
