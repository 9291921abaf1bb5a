package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueDead = "jobs:dead"

// deadJob wraps a failed job with enough context to triage it later.
type deadJob struct {
	Queue    string    `json:"queue"`
	Raw      string    `json:"raw"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

func pushDead(ctx context.Context, rdb *redis.Client, queue, raw string, cause error) {
	dj := deadJob{Queue: queue, Raw: raw, Error: cause.Error(), FailedAt: time.Now()}
	encoded, err := json.Marshal(dj)
	if err != nil {
		log.Error().Err(err).Msg("cannot marshal dead job")
		return
	}
	if err := rdb.LPush(ctx, QueueDead, encoded).Err(); err != nil {
		log.Error().Err(err).Msg("cannot park job on dead-letter queue")
	}
}

// CountDead returns the number of parked jobs.
func CountDead(ctx context.Context, rdb *redis.Client) (int64, error) {
	return rdb.LLen(ctx, QueueDead).Result()
}

// RequeueDead moves every parked job back onto its original queue. Operators
// run it after fixing the underlying failure (SMTP down, DB outage).
func RequeueDead(ctx context.Context, rdb *redis.Client) (int, error) {
	requeued := 0
	for {
		raw, err := rdb.RPop(ctx, QueueDead).Result()
		if err == redis.Nil {
			return requeued, nil
		}
		if err != nil {
			return requeued, err
		}
		var dj deadJob
		if err := json.Unmarshal([]byte(raw), &dj); err != nil {
			log.Error().Err(err).Msg("corrupt dead job skipped")
			continue
		}
		if err := rdb.LPush(ctx, dj.Queue, dj.Raw).Err(); err != nil {
			return requeued, err
		}
		requeued++
	}
}
