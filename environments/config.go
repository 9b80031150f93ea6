package environments

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Twilio   TwilioConfig
	Dispatch DispatchConfig
	Alert    AlertConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// TwilioConfig holds provider credentials and sender identities.
// AuthToken is also the shared secret for inbound webhook signatures.
type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	SMSFrom        string
	WhatsAppFrom   string
	APIBaseURL     string
	Timeout        time.Duration
	WebhookBaseURL string
}

type DispatchConfig struct {
	BatchSize     int
	SendInterval  time.Duration
	SendTimeout   time.Duration
	RunningGrace  time.Duration
	MaxBodyLength int
}

type AlertConfig struct {
	WebhookURL     string
	IterationCount int
}

type AuthConfig struct {
	APIKey     string
	CronSecret string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: GetEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     GetEnv("DB_HOST", "localhost"),
			Port:     GetEnv("DB_PORT", "3306"),
			User:     GetEnv("DB_USER", "inbox"),
			Password: GetEnv("DB_PASSWORD", "inbox123"),
			DBName:   GetEnv("DB_NAME", "unified_inbox"),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetEnvAsInt("REDIS_DB", 0),
		},
		Twilio: TwilioConfig{
			AccountSID:     GetEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:      GetEnv("TWILIO_AUTH_TOKEN", ""),
			SMSFrom:        GetEnv("TWILIO_PHONE_NUMBER", ""),
			WhatsAppFrom:   GetEnv("TWILIO_WHATSAPP_NUMBER", ""),
			APIBaseURL:     GetEnv("TWILIO_API_BASE_URL", "https://api.twilio.com"),
			Timeout:        time.Duration(GetEnvAsInt("TWILIO_TIMEOUT_SECONDS", 30)) * time.Second,
			WebhookBaseURL: GetEnv("WEBHOOK_BASE_URL", ""),
		},
		Dispatch: DispatchConfig{
			BatchSize:     GetEnvAsInt("DISPATCH_BATCH_SIZE", 50),
			SendInterval:  GetEnvAsDuration("DISPATCH_INTERVAL", time.Minute),
			SendTimeout:   time.Duration(GetEnvAsInt("DISPATCH_SEND_TIMEOUT_SECONDS", 30)) * time.Second,
			RunningGrace:  GetEnvAsDuration("DISPATCH_RUNNING_GRACE", 10*time.Minute),
			MaxBodyLength: GetEnvAsInt("MESSAGE_MAX_BODY_LENGTH", 1600),
		},
		Alert: AlertConfig{
			WebhookURL:     GetEnv("ALERT_WEBHOOK_URL", ""),
			IterationCount: GetEnvAsInt("ALERT_ITERATION_COUNT", 0),
		},
		Auth: AuthConfig{
			APIKey:     GetEnv("API_KEY", ""),
			CronSecret: GetEnv("CRON_SECRET", ""),
		},
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
