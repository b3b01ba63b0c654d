package services

import (
	"fmt"
	"sync"
	"time"
)

// AlertRateLimiter caps how many alerts go to one destination per
// window, so a flapping pipeline cannot page the operator all night.
type AlertRateLimiter struct {
	mu          sync.RWMutex
	requests    map[string][]time.Time
	maxRequests int
	window      time.Duration
}

// NewAlertRateLimiter creates a new alert rate limiter
// maxRequests: maximum number of alerts per window
// window: time window for rate limiting (e.g., 1 hour)
func NewAlertRateLimiter(maxRequests int, window time.Duration) *AlertRateLimiter {
	return &AlertRateLimiter{
		requests:    make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
	}
}

// Allow checks if an alert is allowed for the given phone number
func (rl *AlertRateLimiter) Allow(phoneNumber string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	// Clean up old requests
	rl.cleanupOldRequests(phoneNumber, now)

	// Check if limit exceeded
	if len(rl.requests[phoneNumber]) >= rl.maxRequests {
		return fmt.Errorf("rate limit exceeded: maximum %d alerts per %v", rl.maxRequests, rl.window)
	}

	// Record new request
	if rl.requests[phoneNumber] == nil {
		rl.requests[phoneNumber] = make([]time.Time, 0)
	}
	rl.requests[phoneNumber] = append(rl.requests[phoneNumber], now)

	return nil
}

// cleanupOldRequests removes requests outside the time window
func (rl *AlertRateLimiter) cleanupOldRequests(phoneNumber string, now time.Time) {
	if requests, exists := rl.requests[phoneNumber]; exists {
		cutoff := now.Add(-rl.window)
		validRequests := make([]time.Time, 0, len(requests))

		for _, req := range requests {
			if req.After(cutoff) {
				validRequests = append(validRequests, req)
			}
		}

		if len(validRequests) == 0 {
			delete(rl.requests, phoneNumber)
		} else {
			rl.requests[phoneNumber] = validRequests
		}
	}
}

// Reset clears all rate limiting data
func (rl *AlertRateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.requests = make(map[string][]time.Time)
}
