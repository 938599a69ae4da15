package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RabbitMQ     RabbitMQConfig
	Meeting      MeetingConfig
	Subscription SubscriptionConfig
	Payment      PaymentConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
	// CORSOrigins lists allowed browser origins; empty allows any.
	CORSOrigins []string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// MeetingConfig points at the video provider. Rooms are addressed as BaseURL/<meeting_id>.
type MeetingConfig struct {
	BaseURL string
}

type SubscriptionConfig struct {
	Period           time.Duration
	ReminderSchedule string
	ReminderWindow   time.Duration
}

type PaymentConfig struct {
	LockTTL time.Duration
}

// IsDevelopment reports whether the service runs with APP_ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RABBITMQ_EXCHANGE", "telehealth_events")
	v.SetDefault("MEETING_BASE_URL", "https://meet.jit.si")
	v.SetDefault("SUBSCRIPTION_REMINDER_SCHEDULE", "@hourly")

	if v.GetString("JWT_SECRET") == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  parseDuration(v.GetString("JWT_ACCESS_EXPIRY"), 15*time.Minute),
			RefreshExpiry: parseDuration(v.GetString("JWT_REFRESH_EXPIRY"), 7*24*time.Hour),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		Meeting: MeetingConfig{
			BaseURL: v.GetString("MEETING_BASE_URL"),
		},
		Subscription: SubscriptionConfig{
			Period:           parseDuration(v.GetString("SUBSCRIPTION_PERIOD"), 30*24*time.Hour),
			ReminderSchedule: v.GetString("SUBSCRIPTION_REMINDER_SCHEDULE"),
			ReminderWindow:   parseDuration(v.GetString("SUBSCRIPTION_REMINDER_WINDOW"), 24*time.Hour),
		},
		Payment: PaymentConfig{
			LockTTL: parseDuration(v.GetString("PAYMENT_LOCK_TTL"), 30*time.Second),
		},
	}

	return config, nil
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
