// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jason-s-yu/lucky21/internal/config"
	"github.com/jason-s-yu/lucky21/internal/models"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list finished games are pushed to.
const DefaultQueueName = "lucky21_results"

// ErrQueueEmpty is returned by PopResult when nothing arrived before the timeout.
var ErrQueueEmpty = errors.New("result queue empty")

// ConnectRedis creates a client for cfg and pings it.
func ConnectRedis(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// ResultQueue hands finished games to the historian through a Redis list.
type ResultQueue struct {
	rdb  redis.Cmdable
	name string
}

func NewResultQueue(rdb redis.Cmdable, name string) *ResultQueue {
	if name == "" {
		name = DefaultQueueName
	}
	return &ResultQueue{rdb: rdb, name: name}
}

func (q *ResultQueue) Name() string {
	return q.name
}

// RecordResult serialises the result and pushes it to the tail of the queue.
func (q *ResultQueue) RecordResult(ctx context.Context, r models.GameResult) error {
	data, err := EncodeResult(r)
	if err != nil {
		return err
	}
	if err := q.rdb.RPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", q.name, err)
	}
	return nil
}

// PopResult blocks up to timeout for the next result. It returns ErrQueueEmpty on timeout.
func (q *ResultQueue) PopResult(ctx context.Context, timeout time.Duration) (models.GameResult, error) {
	res, err := q.rdb.BLPop(ctx, timeout, q.name).Result()
	if errors.Is(err, redis.Nil) {
		return models.GameResult{}, ErrQueueEmpty
	}
	if err != nil {
		return models.GameResult{}, fmt.Errorf("BLPop %s: %w", q.name, err)
	}
	// res[0] is the list name, res[1] the payload
	if len(res) < 2 {
		return models.GameResult{}, ErrQueueEmpty
	}
	return DecodeResult([]byte(res[1]))
}

// Len reports how many results are waiting.
func (q *ResultQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.name).Result()
}

// EncodeResult is the queue's wire format. Results are stamped on encode so the
// stored InsertDate reflects when the game ended, not when the historian ran.
func EncodeResult(r models.GameResult) ([]byte, error) {
	if r.InsertDate.IsZero() {
		r.InsertDate = time.Now().UTC()
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GameResult: %w", err)
	}
	return data, nil
}

func DecodeResult(data []byte) (models.GameResult, error) {
	var r models.GameResult
	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("invalid result record: %w", err)
	}
	return r, nil
}
