package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Gateway  GatewayConfig
	Engine   EngineConfig
	Ops      OpsConfig
	SMTP     SMTPConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string // postgres DSN
	SqlitePath string
}

type GatewayConfig struct {
	Provider          string // "twilio" or "memory"
	AccountSid        string
	AuthToken         string
	FromNumber        string
	TwilioBaseURL     string
	WebhookURL        string // public URL of /api/webhook/sms as Twilio signs it
	ValidateSignature bool
}

type EngineConfig struct {
	WorkerCount         int
	StoreMaxAttempts    int
	StoreRetryInterval  time.Duration
	DefaultDelayMinutes int
	SendTimeout         time.Duration
}

type OpsConfig struct {
	Username     string
	PasswordHash string // bcrypt hash of the dashboard password
}

type SMTPConfig struct {
	Host        string
	Port        int
	Email       string
	Password    string
	SenderName  string
	OnCallEmail string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			SqlitePath: getEnv("DB_SQLITE_PATH", "workalone.db"),
		},
		Gateway: GatewayConfig{
			Provider:          getEnv("SMS_PROVIDER", "twilio"),
			AccountSid:        getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:         getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber:        getEnv("TWILIO_FROM_NUMBER", ""),
			TwilioBaseURL:     getEnv("TWILIO_BASE_URL", "https://api.twilio.com"),
			WebhookURL:        getEnv("TWILIO_WEBHOOK_URL", ""),
			ValidateSignature: getEnvAsBool("TWILIO_VALIDATE_SIGNATURE", true),
		},
		Engine: EngineConfig{
			WorkerCount:         getEnvAsInt("ENGINE_WORKER_COUNT", 4),
			StoreMaxAttempts:    getEnvAsInt("ENGINE_STORE_MAX_ATTEMPTS", 3),
			StoreRetryInterval:  getEnvAsDuration("ENGINE_STORE_RETRY_INTERVAL", 30*time.Second),
			DefaultDelayMinutes: getEnvAsInt("ENGINE_DEFAULT_DELAY_MINUTES", 30),
			SendTimeout:         getEnvAsDuration("ENGINE_SEND_TIMEOUT", 10*time.Second),
		},
		Ops: OpsConfig{
			Username:     getEnv("OPS_USERNAME", ""),
			PasswordHash: getEnv("OPS_PASSWORD_HASH", ""),
		},
		SMTP: SMTPConfig{
			Host:        getEnv("SMTP_HOST", ""),
			Port:        getEnvAsInt("SMTP_PORT", 587),
			Email:       getEnv("SMTP_EMAIL", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			SenderName:  getEnv("SMTP_SENDER_NAME", "WorkAlone"),
			OnCallEmail: getEnv("SMTP_ONCALL_EMAIL", ""),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
