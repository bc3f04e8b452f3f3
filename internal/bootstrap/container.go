package bootstrap

import (
	"context"
	"log"
	"time"

	"media-courier-be/internal/config"
	"media-courier-be/internal/controller"
	"media-courier-be/internal/pkg/logger"
	"media-courier-be/internal/queue"
	"media-courier-be/internal/repository/unitofwork"
	"media-courier-be/internal/service"
	"media-courier-be/internal/worker"
	"media-courier-be/pkg/caption"
	"media-courier-be/pkg/fetch"
	"media-courier-be/pkg/gateway"
	"media-courier-be/pkg/hosting"
	"media-courier-be/pkg/media"
	"media-courier-be/pkg/messenger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PaymentController  controller.IPaymentController
	WebhookController  controller.IWebhookController
	JobController      controller.IJobController
	DownloadController controller.IDownloadController

	// Background worker (exposed for main.go to run)
	DownloadWorker *worker.Worker

	Logger logger.ILogger
}

// ffmpegConverter satisfies worker.Converter over the media package.
type ffmpegConverter struct{}

func (ffmpegConverter) ToAnimation(ctx context.Context, videoPath string) (string, error) {
	return media.ToAnimation(ctx, videoPath)
}

func (ffmpegConverter) Dimensions(ctx context.Context, videoPath string) (int, int, error) {
	return media.Dimensions(ctx, videoPath)
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Redis: shared by the job queue and the daily rate limiter
	redisOpts, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Fatalf("[FATAL] Invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)

	jobQueue := queue.NewRedisQueue(rdb, cfg.Queue.Key, time.Duration(cfg.Queue.PopTimeoutSec)*time.Second)

	// 3. Payment gateway
	gw, err := gateway.New(cfg.Payment.Gateway, cfg.Payment.MidtransServerKey, cfg.Payment.MidtransIsProduction)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize payment gateway: %v", err)
	}
	log.Printf("[INFO] Using payment gateway: %s", cfg.Payment.Gateway)

	// 4. Services
	ledgerService := service.NewLedgerService(uowFactory, gw, cfg.Payment.Gateway, cfg.Database.TestBalancePosts, sysLogger)
	rateLimitService := service.NewRateLimitService(
		rdb,
		cfg.Limits.RateLimitNamespace,
		time.Duration(cfg.Limits.RateLimitTTLSec)*time.Second,
		cfg.Limits.DailyDownloadLimit,
		sysLogger,
	)
	enqueueService := service.NewEnqueueService(jobQueue, rateLimitService, sysLogger)

	// 5. Hosting store (optional)
	var store *hosting.Store
	if cfg.Hosting.Enabled {
		store, err = hosting.NewStore(cfg.Hosting.Dir, cfg.Hosting.BaseURL, time.Duration(cfg.Hosting.TTLSec)*time.Second, sysLogger)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize hosting store: %v", err)
		}
	}

	// 6. Caption provider (optional)
	var captioner worker.Captioner
	if cfg.Caption.Enabled && cfg.Caption.OpenAIAPIKey != "" {
		captioner = caption.NewOpenAIProvider(
			cfg.Caption.OpenAIAPIKey,
			cfg.Caption.SummaryModel,
			cfg.Caption.TranscriptionSizeLimit,
			media.ExtractAudio,
			sysLogger,
		)
		log.Printf("[INFO] Video summaries enabled (%s)", cfg.Caption.SummaryModel)
	}

	// 7. Download worker
	fetcher := fetch.NewYtDlpFetcher(cfg.Download.BinPath, cfg.Download.CookiesFile, sysLogger)
	chatClient := messenger.NewTelegramClient(cfg.Telegram.BotToken, cfg.Telegram.APIBaseURL, sysLogger)
	downloadWorker := worker.New(
		jobQueue,
		chatClient,
		fetcher,
		ledgerService,
		rateLimitService,
		captioner,
		ffmpegConverter{},
		publisherOrNil(store),
		worker.Options{
			Policy: worker.SizePolicy{
				SmallLimit:     cfg.Limits.SmallTransportLimitBytes,
				LargeLimit:     cfg.Limits.LargeTransportLimitBytes,
				LargeEnabled:   cfg.Limits.LargeTransportEnabled,
				HostingEnabled: cfg.Hosting.Enabled,
			},
			MaxAttempts:      cfg.Download.MaxAttempts,
			BackoffBase:      time.Duration(cfg.Download.BackoffBaseSec) * time.Second,
			MaxCaptionLength: cfg.Caption.MaxCaptionLength,
		},
		sysLogger,
	)

	return &Container{
		PaymentController:  controller.NewPaymentController(ledgerService),
		WebhookController:  controller.NewWebhookController(ledgerService, sysLogger),
		JobController:      controller.NewJobController(enqueueService),
		DownloadController: controller.NewDownloadController(store),
		DownloadWorker:     downloadWorker,
		Logger:             sysLogger,
	}
}

// publisherOrNil keeps the worker's Publisher field a typed nil-free value.
// A *Store inside a non-nil interface would dodge the worker's nil check.
func publisherOrNil(store *hosting.Store) worker.Publisher {
	if store == nil {
		return nil
	}
	return store
}
