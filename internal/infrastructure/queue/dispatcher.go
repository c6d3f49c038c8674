package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pickmeapp/pickme-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	queueDepth     = 256
)

// Dispatcher fans webhook events out to a fixed pool of workers. Events are
// sharded on the payment reference, so redeliveries and follow-up
// notifications for one order always land on the same worker and settle in
// arrival order.
type Dispatcher struct {
	shards  []chan ports.WebhookEventInput
	service ports.PaymentService
	log     zerolog.Logger
}

// NewDispatcher sizes the pool to workers, falling back to defaultWorkers
// when workers <= 0.
func NewDispatcher(workers int, service ports.PaymentService, log zerolog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	shards := make([]chan ports.WebhookEventInput, workers)
	for i := range shards {
		shards[i] = make(chan ports.WebhookEventInput, queueDepth)
	}
	return &Dispatcher{shards: shards, service: service, log: log}
}

// Start launches one goroutine per shard; they exit when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.shards {
		go d.drain(ctx, i, ch)
	}
}

// Enqueue hands an event to its shard. Blocks only once the shard's buffer
// (queueDepth) is full.
func (d *Dispatcher) Enqueue(event ports.WebhookEventInput) {
	key := shardKey(event)
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	d.shards[int(h.Sum32())%len(d.shards)] <- event
}

// shardKey picks the field most likely to carry the order reference; events
// without any reference material shard on the provider tx id.
func shardKey(event ports.WebhookEventInput) string {
	switch {
	case event.ReferenceCode != "":
		return event.ReferenceCode
	case event.Code != "":
		return event.Code
	case event.Content != "":
		return event.Content
	}
	return strconv.FormatInt(event.ProviderTxID, 10)
}

func (d *Dispatcher) drain(ctx context.Context, shard int, ch <-chan ports.WebhookEventInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Int64("provider_tx_id", event.ProviderTxID).
					Int("worker_id", shard).
					Msg("payment event processing failed")
			}
		}
	}
}
