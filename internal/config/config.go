package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Queue    QueueConfig
	Limits   LimitsConfig
	Download DownloadConfig
	Caption  CaptionConfig
	Hosting  HostingConfig
	Payment  PaymentConfig
	Telegram TelegramConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
	// TestBalancePosts seeds new users with a starter balance. Leave 0 in production.
	TestBalancePosts int
}

type QueueConfig struct {
	Key           string
	PopTimeoutSec int
}

type LimitsConfig struct {
	SmallTransportLimitBytes int64
	LargeTransportLimitBytes int64
	LargeTransportEnabled    bool
	DailyDownloadLimit       int
	RateLimitNamespace       string
	RateLimitTTLSec          int
}

type DownloadConfig struct {
	MaxAttempts    int
	BackoffBaseSec int
	BinPath        string
	CookiesFile    string
}

type CaptionConfig struct {
	Enabled                bool
	OpenAIAPIKey           string
	SummaryModel           string
	TranscriptionSizeLimit int64
	MaxCaptionLength       int
}

type HostingConfig struct {
	Enabled bool
	Dir     string
	BaseURL string
	TTLSec  int
}

type TelegramConfig struct {
	BotToken   string
	APIBaseURL string
}

type PaymentConfig struct {
	Gateway              string
	MidtransServerKey    string
	MidtransIsProduction bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8080"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8080"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection:       getEnv("DB_CONNECTION_STRING", ""),
			TestBalancePosts: getEnvAsInt("TEST_BALANCE_POSTS", 0),
		},
		Queue: QueueConfig{
			Key:           getEnv("QUEUE_KEY", "media_courier:download_queue"),
			PopTimeoutSec: getEnvAsInt("QUEUE_POP_TIMEOUT_SEC", 1),
		},
		Limits: LimitsConfig{
			SmallTransportLimitBytes: getEnvAsInt64("SMALL_TRANSPORT_LIMIT_BYTES", 50*1024*1024),
			LargeTransportLimitBytes: getEnvAsInt64("LARGE_TRANSPORT_LIMIT_BYTES", 2*1024*1024*1024),
			LargeTransportEnabled:    getEnvAsBool("LARGE_TRANSPORT_ENABLED", false),
			DailyDownloadLimit:       getEnvAsInt("DAILY_DOWNLOAD_LIMIT", 10),
			RateLimitNamespace:       getEnv("RATE_LIMIT_NAMESPACE", "media_courier:daily"),
			RateLimitTTLSec:          getEnvAsInt("RATE_LIMIT_TTL_SEC", 86400*2),
		},
		Download: DownloadConfig{
			MaxAttempts:    getEnvAsInt("DOWNLOAD_MAX_ATTEMPTS", 3),
			BackoffBaseSec: getEnvAsInt("DOWNLOAD_BACKOFF_BASE_SEC", 5),
			BinPath:        getEnv("YTDLP_PATH", "yt-dlp"),
			CookiesFile:    getEnv("COOKIES_FILE", ""),
		},
		Caption: CaptionConfig{
			Enabled:                getEnvAsBool("ENABLE_VIDEO_SUMMARY", true),
			OpenAIAPIKey:           getEnv("OPENAI_API_KEY", ""),
			SummaryModel:           getEnv("SUMMARY_MODEL", "gpt-4o-mini"),
			TranscriptionSizeLimit: getEnvAsInt64("TRANSCRIPTION_SIZE_LIMIT_BYTES", 25*1024*1024),
			MaxCaptionLength:       getEnvAsInt("MAX_CAPTION_LENGTH", 1024),
		},
		Hosting: HostingConfig{
			Enabled: getEnvAsBool("HOSTING_ENABLED", false),
			Dir:     getEnv("HOSTING_DIR", "data/hosted"),
			BaseURL: getEnv("HOSTING_BASE_URL", getEnv("APP_BASE_URL", "http://localhost:8080")),
			TTLSec:  getEnvAsInt("HOSTING_TTL_SEC", 3600),
		},
		Telegram: TelegramConfig{
			BotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
			APIBaseURL: getEnv("TELEGRAM_API_BASE_URL", ""),
		},
		Payment: PaymentConfig{
			Gateway:              getEnv("PAYMENT_GATEWAY", "sandbox"),
			MidtransServerKey:    getEnv("MIDTRANS_SERVER_KEY", ""),
			MidtransIsProduction: getEnvAsBool("MIDTRANS_IS_PRODUCTION", false),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseInt(strValue, 10, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	switch strValue {
	case "0", "false", "no", "off":
		return false
	}
	return true
}
