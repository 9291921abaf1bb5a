package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueLowStock = "jobs:lowstock"
	QueueEmail    = "jobs:email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists; the worker pool dequeues
// them via BRPOP. Domain services dispatch side-effects (low-stock alerts)
// here so the originating transaction never waits on notification writes or
// SMTP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher { return &Dispatcher{rdb: rdb} }

// EnqueueLowStock pushes a low-stock alert job.
func (d *Dispatcher) EnqueueLowStock(ctx context.Context, payload LowStockJob) error {
	return d.enqueue(ctx, QueueLowStock, "lowstock", payload)
}

// EnqueueEmail pushes an outbound email job.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJob) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handlers holds the per-queue job processors, wired at the composition root.
type Handlers struct {
	LowStock *LowStockWorker
	Email    *EmailWorker
}

// StartPool launches numWorkers goroutines consuming both queues. Each
// goroutine blocks on BRPOP — zero CPU when idle.
func StartPool(ctx context.Context, rdb *redis.Client, handlers *Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *Handlers, id int) {
	queues := []string{QueueLowStock, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	var err error
	switch job.Type {
	case "lowstock":
		var payload LowStockJob
		if err = json.Unmarshal(job.Payload, &payload); err == nil {
			err = handlers.LowStock.Handle(ctx, payload)
		}
	case "email":
		var payload EmailJob
		if err = json.Unmarshal(job.Payload, &payload); err == nil {
			err = handlers.Email.Handle(ctx, payload)
		}
	default:
		log.Warn().Str("type", job.Type).Msg("unknown job type discarded")
		return
	}

	if err != nil {
		log.Error().Str("type", job.Type).Err(err).Msg("job failed; parking on dead-letter queue")
		pushDead(ctx, rdb, queue, raw, err)
	}
}
