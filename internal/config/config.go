package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // LEDGER_TIMEZONE must resolve without system zoneinfo

	"github.com/joho/godotenv"
)

const (
	BusNone  = "none"
	BusKafka = "kafka"
	BusRedis = "redis"
	BusNats  = "nats"
)

type Config struct {
	HTTPAddr        string
	Location        *time.Location
	EventBus        string
	EventTopic      string
	KafkaBrokers    []string
	RedisAddr       string
	NatsURL         string
	LogLevel        string
	Development     bool
	ShutdownTimeout time.Duration
	PublishTimeout  time.Duration
}

// Load reads the configuration from the environment, after loading a .env
// file if one exists. Every setting has a default, so an empty environment
// starts the service on :3333 without an event bus.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:     getEnv("LEDGER_HTTP_ADDR", ":3333"),
		EventBus:     strings.ToLower(getEnv("LEDGER_EVENT_BUS", BusNone)),
		EventTopic:   getEnv("LEDGER_EVENT_TOPIC", "ledger.transactions"),
		KafkaBrokers: getEnvSlice("LEDGER_KAFKA_BROKERS", []string{"localhost:9092"}),
		RedisAddr:    getEnv("LEDGER_REDIS_ADDR", "localhost:6379"),
		NatsURL:      getEnv("LEDGER_NATS_URL", "nats://localhost:4222"),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Development:  getEnv("APP_ENV", "production") == "development",
	}

	location, err := time.LoadLocation(getEnv("LEDGER_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_TIMEZONE: %w", err)
	}
	cfg.Location = location

	cfg.ShutdownTimeout, err = time.ParseDuration(getEnv("LEDGER_SHUTDOWN_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.PublishTimeout, err = time.ParseDuration(getEnv("LEDGER_PUBLISH_TIMEOUT", "5s"))
	if err != nil || cfg.PublishTimeout <= 0 {
		return nil, fmt.Errorf("invalid LEDGER_PUBLISH_TIMEOUT %q", getEnv("LEDGER_PUBLISH_TIMEOUT", "5s"))
	}

	switch cfg.EventBus {
	case BusNone, BusKafka, BusRedis, BusNats:
	default:
		return nil, fmt.Errorf("invalid event bus %q, must be one of none, kafka, redis, nats", cfg.EventBus)
	}
	if cfg.EventBus == BusKafka && len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("missing required env for kafka bus: LEDGER_KAFKA_BROKERS")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
