package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	resetLimit  = 3
	resetWindow = 15 * time.Minute
)

// ResetRateLimiter throttles password reset requests per email using a
// fixed window counter. Key format: otp:rl:<email>
type ResetRateLimiter struct {
	client *redis.Client
}

// NewResetRateLimiter creates a ResetRateLimiter wrapping the given client.
func NewResetRateLimiter(client *redis.Client) *ResetRateLimiter {
	return &ResetRateLimiter{client: client}
}

// Allow reports whether another reset request may go through for this email.
// The counter and its window are created on first use.
func (r *ResetRateLimiter) Allow(ctx context.Context, email string) (bool, error) {
	key := fmt.Sprintf("otp:rl:%s", strings.ToLower(email))

	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := r.client.Expire(ctx, key, resetWindow).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= resetLimit, nil
}
