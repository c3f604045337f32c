package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RateLimitType string

const (
	RateLimitTypeDefault RateLimitType = "default"
	RateLimitTypeAuth    RateLimitType = "auth"
	RateLimitTypeBooking RateLimitType = "booking"
	RateLimitTypeAdmin   RateLimitType = "admin"
	RateLimitTypeHealth  RateLimitType = "health"
)

// Config holds per-type request budgets for a fixed window
type Config struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	AuthRequests    int           `json:"auth_requests"`
	BookingRequests int           `json:"booking_requests"`
	AdminRequests   int           `json:"admin_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// Result represents rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client *redis.Client
	config *Config
}

func NewRateLimiter(client *redis.Client, config *Config) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// IsAllowed checks and records a request for the given client and limit type.
// Uses a fixed window counter keyed by client and window start.
func (rl *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := rl.limitFor(limitType)

	for _, ip := range rl.config.WhitelistedIPs {
		if ip == clientIP {
			return &Result{Allowed: true, Limit: limit, Remaining: limit}, nil
		}
	}

	window := rl.config.WindowDuration
	windowStart := time.Now().Truncate(window)
	key := fmt.Sprintf("ratelimit:%s:%s:%d", limitType, clientIP, windowStart.Unix())

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("rate limit pipeline failed: %w", err)
	}

	count := int(incr.Val())
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetTime: windowStart.Add(window).Unix(),
	}, nil
}

func (rl *RateLimiter) limitFor(limitType RateLimitType) int {
	switch limitType {
	case RateLimitTypeAuth:
		return rl.config.AuthRequests
	case RateLimitTypeBooking:
		return rl.config.BookingRequests
	case RateLimitTypeAdmin:
		return rl.config.AdminRequests
	case RateLimitTypeHealth:
		// Health probes are effectively unthrottled
		return rl.config.DefaultRequests * 10
	default:
		return rl.config.DefaultRequests
	}
}
