package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"media-courier-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// IRateLimitService counts deliveries per chat per UTC calendar day.
// It fails open: if the backing store is unreachable, GetCount reports 0 so
// an outage does not silently deny all traffic.
type IRateLimitService interface {
	GetCount(ctx context.Context, chatId int64) int
	Increment(ctx context.Context, chatId int64)
	CanProceed(ctx context.Context, chatId int64) bool
}

type rateLimitService struct {
	rdb        *redis.Client
	namespace  string
	keyTTL     time.Duration
	dailyLimit int
	log        logger.ILogger
	now        func() time.Time
}

func NewRateLimitService(rdb *redis.Client, namespace string, keyTTL time.Duration, dailyLimit int, log logger.ILogger) IRateLimitService {
	return &rateLimitService{
		rdb:        rdb,
		namespace:  namespace,
		keyTTL:     keyTTL,
		dailyLimit: dailyLimit,
		log:        log,
		now:        time.Now,
	}
}

func (s *rateLimitService) dailyKey(chatId int64) string {
	day := s.now().UTC().Format("2006-01-02")
	return fmt.Sprintf("%s:%d:%s", s.namespace, chatId, day)
}

func (s *rateLimitService) GetCount(ctx context.Context, chatId int64) int {
	val, err := s.rdb.Get(ctx, s.dailyKey(chatId)).Result()
	if err == redis.Nil {
		return 0
	}
	if err != nil {
		s.log.Warn("ratelimit", "failed to read daily count, failing open", map[string]interface{}{
			"chat_id": chatId,
			"error":   err.Error(),
		})
		return 0
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return n
}

func (s *rateLimitService) Increment(ctx context.Context, chatId int64) {
	key := s.dailyKey(chatId)
	pipe := s.rdb.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.keyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn("ratelimit", "failed to increment daily count", map[string]interface{}{
			"chat_id": chatId,
			"error":   err.Error(),
		})
	}
}

func (s *rateLimitService) CanProceed(ctx context.Context, chatId int64) bool {
	return s.GetCount(ctx, chatId) < s.dailyLimit
}
