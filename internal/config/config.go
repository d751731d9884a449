package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPPort string

	// Optional infrastructure. Empty means the in-process fallback is used.
	RedisAddr    string
	KafkaBrokers []string
	KafkaTopic   string

	DiscountThreshold  float64
	DiscountRate       float64
	MaxCartLines       int
	PaymentDeclineOver float64

	PendingOrderTTL time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, picking up a .env file
// when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:        getEnv("APP_ENV", "development"),
		HTTPPort:   getEnv("HTTP_PORT", "8080"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		KafkaTopic: getEnv("KAFKA_TOPIC", "order.events"),

		DiscountThreshold:  getEnvFloat("DISCOUNT_THRESHOLD", 100),
		DiscountRate:       getEnvFloat("DISCOUNT_RATE", 0.05),
		MaxCartLines:       getEnvInt("MAX_CART_LINES", 50),
		PaymentDeclineOver: getEnvFloat("PAYMENT_DECLINE_OVER", 0),

		PendingOrderTTL: getEnvDuration("PENDING_ORDER_TTL", 24*time.Hour),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.DiscountRate < 0 || cfg.DiscountRate >= 1 {
		return nil, fmt.Errorf("DISCOUNT_RATE must be in [0, 1), got %v", cfg.DiscountRate)
	}
	if cfg.MaxCartLines <= 0 {
		return nil, fmt.Errorf("MAX_CART_LINES must be positive, got %d", cfg.MaxCartLines)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
