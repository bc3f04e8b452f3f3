package service

import (
	"context"
	"errors"

	"media-courier-be/internal/entity"
	"media-courier-be/internal/pkg/logger"
	"media-courier-be/internal/queue"
)

var ErrDailyLimitReached = errors.New("daily download limit reached")

// IEnqueueService validates a submission against the rate limiter and
// appends the job. It does not consult the ledger; entitlement is enforced
// again inside the worker before delivery. Duplicate submissions produce
// duplicate jobs.
type IEnqueueService interface {
	Submit(ctx context.Context, chatId, statusMessageRef int64, sourceURL string, requesterId int64) error
}

type enqueueService struct {
	producer queue.Producer
	limiter  IRateLimitService
	log      logger.ILogger
}

func NewEnqueueService(producer queue.Producer, limiter IRateLimitService, log logger.ILogger) IEnqueueService {
	return &enqueueService{
		producer: producer,
		limiter:  limiter,
		log:      log,
	}
}

func (s *enqueueService) Submit(ctx context.Context, chatId, statusMessageRef int64, sourceURL string, requesterId int64) error {
	if !s.limiter.CanProceed(ctx, chatId) {
		return ErrDailyLimitReached
	}

	if requesterId == 0 {
		requesterId = chatId
	}
	job := &entity.Job{
		ChatId:           chatId,
		StatusMessageRef: statusMessageRef,
		SourceURL:        sourceURL,
		RequesterId:      requesterId,
	}
	if err := s.producer.Push(ctx, job); err != nil {
		return err
	}

	s.log.Info("enqueue", "job queued", map[string]interface{}{
		"chat_id": chatId,
		"url":     truncateURL(sourceURL),
	})
	return nil
}

func truncateURL(u string) string {
	if len(u) > 50 {
		return u[:50]
	}
	return u
}
