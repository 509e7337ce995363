package config

import (
	"os"
	"strings"
	"time"
)

// Config captures process-level configuration so main stays lean.
type Config struct {
	Addr         string
	DatabaseURL  string
	Redis        RedisConfig
	Kafka        KafkaConfig
	AuthzSigning string

	// ApplicationURLTemplate renders the detail URL embedded in domain
	// events; "#id" is substituted with the application id.
	ApplicationURLTemplate string

	// SuccessfulAppealReasonID identifies the cancellation reason that
	// triggers placement-request replacement.
	SuccessfulAppealReasonID string

	// SuppressArrivalEvents is the static fallback for the feature flag
	// gating PersonArrived/PersonDeparted emission when redis is not
	// configured.
	SuppressArrivalEvents bool
}

// RedisConfig mirrors the subset of go-redis options we tune.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig locates the broker and the domain events topic.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:                     envOr("PLACEMENTS_ADDR", ":8080"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		AuthzSigning:             os.Getenv("AUTHZ_SIGNING_KEY"),
		ApplicationURLTemplate:   envOr("APPLICATION_URL_TEMPLATE", "https://placements.local/applications/#id"),
		SuccessfulAppealReasonID: os.Getenv("SUCCESSFUL_APPEAL_REASON_ID"),
		SuppressArrivalEvents:    os.Getenv("SUPPRESS_ARRIVAL_EVENTS") == "true",
	}

	cfg.Redis = RedisConfig{
		URL:          os.Getenv("REDIS_URL"),
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	cfg.Kafka.Topic = envOr("DOMAIN_EVENTS_TOPIC", "placements.domain-events")

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
