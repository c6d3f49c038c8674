// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pickmeapp/pickme-api/internal/core/ports"
	"github.com/pickmeapp/pickme-api/internal/metrics"
)

const defaultInterval = 5 * time.Minute

// OTPCleaner deletes expired password reset codes on a fixed interval.
// The sweep is one idempotent DELETE, so overlapping instances are harmless.
type OTPCleaner struct {
	otps     ports.OTPRepository
	interval time.Duration
	log      zerolog.Logger
}

// NewOTPCleaner builds a cleaner. interval <= 0 falls back to the default.
func NewOTPCleaner(otps ports.OTPRepository, interval time.Duration, log zerolog.Logger) *OTPCleaner {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &OTPCleaner{otps: otps, interval: interval, log: log}
}

// Start runs the sweep loop until ctx is cancelled.
func (c *OTPCleaner) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep(ctx)
			}
		}
	}()
}

func (c *OTPCleaner) sweep(ctx context.Context) {
	deleted, err := c.otps.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		c.log.Error().Err(err).Msg("otp cleanup failed")
		return
	}
	if deleted > 0 {
		metrics.OTPCleanupDeletedTotal.Add(float64(deleted))
		c.log.Debug().Int64("deleted", deleted).Msg("expired reset codes removed")
	}
}
