package service

import (
	"context"
	"testing"
	"time"

	"media-courier-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// unreachableRedis returns a client that fails every command fast.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestDailyKeyFormat(t *testing.T) {
	svc := NewRateLimitService(unreachableRedis(), "media_courier:daily", 48*time.Hour, 10, logger.Noop{}).(*rateLimitService)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 9, 23, 59, 0, 0, time.FixedZone("BRT", -3*3600))
	}

	// 23:59 BRT on Mar 9 is already Mar 10 in UTC.
	assert.Equal(t, "media_courier:daily:42:2025-03-10", svc.dailyKey(42))
}

func TestDailyKeyRollsOverAtUTCMidnight(t *testing.T) {
	svc := NewRateLimitService(unreachableRedis(), "ns", 48*time.Hour, 10, logger.Noop{}).(*rateLimitService)

	svc.now = func() time.Time { return time.Date(2025, 3, 9, 23, 59, 59, 0, time.UTC) }
	before := svc.dailyKey(7)

	svc.now = func() time.Time { return time.Date(2025, 3, 10, 0, 0, 1, 0, time.UTC) }
	after := svc.dailyKey(7)

	assert.NotEqual(t, before, after)
	assert.Equal(t, "ns:7:2025-03-09", before)
	assert.Equal(t, "ns:7:2025-03-10", after)
}

func TestGetCountFailsOpen(t *testing.T) {
	svc := NewRateLimitService(unreachableRedis(), "ns", 48*time.Hour, 10, logger.Noop{})

	assert.Equal(t, 0, svc.GetCount(context.Background(), 42))
	assert.True(t, svc.CanProceed(context.Background(), 42), "an unreachable store must not deny traffic")
}

func TestIncrementSwallowsStoreErrors(t *testing.T) {
	svc := NewRateLimitService(unreachableRedis(), "ns", 48*time.Hour, 10, logger.Noop{})

	// Must not panic or block.
	svc.Increment(context.Background(), 42)
}
