// Package config loads runtime settings from the environment, an optional
// .env file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort        string
	DatabaseDriver string
	DatabaseDSN    string
	JWTSecret      string
	SessionTTL     time.Duration
	RedisURL       string
	RabbitMQURL    string
	KafkaBrokers   []string
	KafkaTopic     string
	PaymentBaseURL string
	PaymentToken   string
	PublicBaseURL  string
	AlertInterval  time.Duration
	CORSOrigins    string
	AdminUsername  string
	AdminPassword  string
}

// Defaults registers the fallback value of every key on v.
func Defaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "pizzaria.db")
	v.SetDefault("JWT_SECRET", "changeme")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "pizzaria.changes")
	v.SetDefault("PAYMENT_BASE_URL", "https://api.mercadopago.com")
	v.SetDefault("PAYMENT_ACCESS_TOKEN", "")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("ALERT_INTERVAL", "30s")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "")
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	v := viper.New()
	Defaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppPort:        v.GetString("APP_PORT"),
		DatabaseDriver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		RedisURL:       v.GetString("REDIS_URL"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		KafkaBrokers:   splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:     v.GetString("KAFKA_TOPIC"),
		PaymentBaseURL: strings.TrimRight(v.GetString("PAYMENT_BASE_URL"), "/"),
		PaymentToken:   v.GetString("PAYMENT_ACCESS_TOKEN"),
		PublicBaseURL:  strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		AlertInterval:  v.GetDuration("ALERT_INTERVAL"),
		CORSOrigins:    v.GetString("CORS_ORIGINS"),
		AdminUsername:  v.GetString("ADMIN_USERNAME"),
		AdminPassword:  v.GetString("ADMIN_PASSWORD"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.AlertInterval <= 0 {
		return errors.New("ALERT_INTERVAL must be positive")
	}
	return nil
}

// PaymentsEnabled reports whether online payments can be offered.
func (c Config) PaymentsEnabled() bool {
	return c.PaymentToken != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
