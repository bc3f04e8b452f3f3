package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"media-courier-be/internal/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeJobFieldNames(t *testing.T) {
	payload, err := EncodeJob(&entity.Job{
		ChatId:           10,
		StatusMessageRef: 55,
		SourceURL:        "https://instagram.com/reel/abc",
		RequesterId:      77,
	})
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &wire))
	assert.Equal(t, float64(10), wire["chat_id"])
	assert.Equal(t, float64(55), wire["status_message_ref"])
	assert.Equal(t, "https://instagram.com/reel/abc", wire["source_url"])
	assert.Equal(t, float64(77), wire["requester_id"])
}

func TestDecodeJobRoundTrip(t *testing.T) {
	original := &entity.Job{ChatId: 1, StatusMessageRef: 2, SourceURL: "https://x", RequesterId: 3}
	payload, err := EncodeJob(original)
	require.NoError(t, err)

	decoded, err := DecodeJob(payload)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeJobDefaultsRequesterId(t *testing.T) {
	decoded, err := DecodeJob([]byte(`{"chat_id":10,"status_message_ref":5,"source_url":"https://x"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(10), decoded.RequesterId, "missing requester falls back to the chat id")
}

func TestDecodeJobRejectsGarbage(t *testing.T) {
	_, err := DecodeJob([]byte(`{not json`))
	assert.Error(t, err)
}

func newTestQueue(t *testing.T) *RedisQueue {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisQueue(rdb, "media_fetch_queue", 100*time.Millisecond)
}

func TestQueuePopOrderMatchesPushOrder(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	const n = 10
	for i := 0; i < n; i++ {
		require.NoError(t, q.Push(ctx, &entity.Job{
			ChatId:           int64(i + 1),
			StatusMessageRef: int64(i + 100),
			SourceURL:        fmt.Sprintf("https://instagram.com/reel/job%d", i),
			RequesterId:      int64(i + 1),
		}))
	}

	for i := 0; i < n; i++ {
		job, err := q.Pop(ctx)
		require.NoError(t, err)
		require.NotNil(t, job)
		assert.Equal(t, int64(i+1), job.ChatId, "jobs must dequeue in enqueue order")
		assert.Equal(t, fmt.Sprintf("https://instagram.com/reel/job%d", i), job.SourceURL)
	}
}

func TestQueuePopEmptyReturnsNil(t *testing.T) {
	q := newTestQueue(t)

	job, err := q.Pop(context.Background())
	require.NoError(t, err)
	assert.Nil(t, job)
}
