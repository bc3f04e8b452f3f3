package queue

import (
	"context"
	"encoding/json"

	"media-courier-be/internal/entity"
)

// Producer appends jobs to the tail-consumption end of the queue.
type Producer interface {
	Push(ctx context.Context, job *entity.Job) error
}

// Consumer removes jobs from the opposite end. Pop blocks for a short poll
// timeout and returns (nil, nil) when no job arrived, so the caller's loop
// can observe cancellation between polls.
type Consumer interface {
	Pop(ctx context.Context) (*entity.Job, error)
}

// DecodeJob parses the wire payload. A missing requester_id defaults to the
// chat id, matching producers that predate the field.
func DecodeJob(raw []byte) (*entity.Job, error) {
	var job entity.Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, err
	}
	if job.RequesterId == 0 {
		job.RequesterId = job.ChatId
	}
	return &job, nil
}

// EncodeJob renders the wire payload.
func EncodeJob(job *entity.Job) ([]byte, error) {
	return json.Marshal(job)
}
