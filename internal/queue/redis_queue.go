package queue

import (
	"context"
	"time"

	"media-courier-be/internal/entity"

	"github.com/redis/go-redis/v9"
)

// RedisQueue is a FIFO lane on a Redis list: LPUSH to enqueue, BRPOP to
// consume. Delivery is at-most-once; a job popped and not finished is lost
// on crash.
type RedisQueue struct {
	rdb        *redis.Client
	key        string
	popTimeout time.Duration
}

func NewRedisQueue(rdb *redis.Client, key string, popTimeout time.Duration) *RedisQueue {
	if popTimeout <= 0 {
		popTimeout = time.Second
	}
	return &RedisQueue{
		rdb:        rdb,
		key:        key,
		popTimeout: popTimeout,
	}
}

func (q *RedisQueue) Push(ctx context.Context, job *entity.Job) error {
	payload, err := EncodeJob(job)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, q.key, payload).Err()
}

func (q *RedisQueue) Pop(ctx context.Context) (*entity.Job, error) {
	res, err := q.rdb.BRPop(ctx, q.popTimeout, q.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// BRPop returns [key, value].
	if len(res) < 2 {
		return nil, nil
	}
	return DecodeJob([]byte(res[1]))
}
