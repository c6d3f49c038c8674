package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// DedupChecker provides webhook idempotency checks backed by Redis.
// Key format: payment:tx:<provider_tx_id>
//
// Redis is the fast first line; the unique constraint on payments is the
// durable one, so a flushed cache cannot double-settle an order.
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this provider transaction was already seen.
func (d *DedupChecker) IsDuplicate(ctx context.Context, providerTxID int64) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(providerTxID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records the transaction as seen (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, providerTxID int64) error {
	return d.client.Set(ctx, d.key(providerTxID), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(providerTxID int64) string {
	return fmt.Sprintf("payment:tx:%d", providerTxID)
}
