package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string

	MaxDBConns                  int32
	KafkaConsumerGroup          string
	KafkaTopicOrderChanged      string
	KafkaTopicDeliveryConfirmed string
	KafkaTopicArticleDelivered  string
	KafkaTopicReorderCreated    string
	KafkaTopicAuditLog          string

	OutboxPollInterval   time.Duration
	OutboxBatchSize      int
	ConsumerPollInterval time.Duration
	ReconcileInterval    time.Duration
	ReorderInterval      time.Duration

	CatalogCacheTTL time.Duration
	EventDedupTTL   time.Duration
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL                 string   `yaml:"postgres_url"`
		RedisURL                    string   `yaml:"redis_url"`
		KafkaBrokers                []string `yaml:"kafka_brokers"`
		KafkaConsumerGroup          string   `yaml:"kafka_consumer_group"`
		KafkaTopicOrderChanged      string   `yaml:"kafka_topic_order_changed"`
		KafkaTopicDeliveryConfirmed string   `yaml:"kafka_topic_delivery_confirmed"`
		KafkaTopicArticleDelivered  string   `yaml:"kafka_topic_article_delivered"`
		KafkaTopicReorderCreated    string   `yaml:"kafka_topic_reorder_created"`
		KafkaTopicAuditLog          string   `yaml:"kafka_topic_audit_log"`
	} `yaml:"dependencies"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:                   "branch-inventory-service",
		HTTPPort:                    8080,
		GRPCPort:                    9090,
		MaxDBConns:                  20,
		KafkaConsumerGroup:          "branch-inventory-service",
		KafkaTopicOrderChanged:      "branch.order_changed",
		KafkaTopicDeliveryConfirmed: "branch.delivery_confirmed",
		KafkaTopicArticleDelivered:  "branch.article_delivered",
		KafkaTopicReorderCreated:    "branch.reorder_created",
		KafkaTopicAuditLog:          "branch.audit_log",
		OutboxPollInterval:          2 * time.Second,
		OutboxBatchSize:             100,
		ConsumerPollInterval:        2 * time.Second,
		ReconcileInterval:           30 * time.Second,
		ReorderInterval:             24 * time.Hour,
		CatalogCacheTTL:             5 * time.Minute,
		EventDedupTTL:               7 * 24 * time.Hour,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		if f.Dependencies.KafkaConsumerGroup != "" {
			cfg.KafkaConsumerGroup = f.Dependencies.KafkaConsumerGroup
		}
		if f.Dependencies.KafkaTopicOrderChanged != "" {
			cfg.KafkaTopicOrderChanged = f.Dependencies.KafkaTopicOrderChanged
		}
		if f.Dependencies.KafkaTopicDeliveryConfirmed != "" {
			cfg.KafkaTopicDeliveryConfirmed = f.Dependencies.KafkaTopicDeliveryConfirmed
		}
		if f.Dependencies.KafkaTopicArticleDelivered != "" {
			cfg.KafkaTopicArticleDelivered = f.Dependencies.KafkaTopicArticleDelivered
		}
		if f.Dependencies.KafkaTopicReorderCreated != "" {
			cfg.KafkaTopicReorderCreated = f.Dependencies.KafkaTopicReorderCreated
		}
		if f.Dependencies.KafkaTopicAuditLog != "" {
			cfg.KafkaTopicAuditLog = f.Dependencies.KafkaTopicAuditLog
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaConsumerGroup = envOrDefault("KAFKA_CONSUMER_GROUP", cfg.KafkaConsumerGroup)
	cfg.KafkaTopicOrderChanged = envOrDefault("KAFKA_TOPIC_ORDER_CHANGED", cfg.KafkaTopicOrderChanged)
	cfg.KafkaTopicDeliveryConfirmed = envOrDefault("KAFKA_TOPIC_DELIVERY_CONFIRMED", cfg.KafkaTopicDeliveryConfirmed)
	cfg.KafkaTopicArticleDelivered = envOrDefault("KAFKA_TOPIC_ARTICLE_DELIVERED", cfg.KafkaTopicArticleDelivered)
	cfg.KafkaTopicReorderCreated = envOrDefault("KAFKA_TOPIC_REORDER_CREATED", cfg.KafkaTopicReorderCreated)
	cfg.KafkaTopicAuditLog = envOrDefault("KAFKA_TOPIC_AUDIT_LOG", cfg.KafkaTopicAuditLog)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.ConsumerPollInterval = time.Duration(envInt("CONSUMER_POLL_SECONDS", int(cfg.ConsumerPollInterval.Seconds()))) * time.Second
	cfg.ReconcileInterval = time.Duration(envInt("RECONCILE_INTERVAL_SECONDS", int(cfg.ReconcileInterval.Seconds()))) * time.Second
	cfg.ReorderInterval = time.Duration(envInt("REORDER_INTERVAL_SECONDS", int(cfg.ReorderInterval.Seconds()))) * time.Second
	cfg.CatalogCacheTTL = time.Duration(envInt("CATALOG_CACHE_SECONDS", int(cfg.CatalogCacheTTL.Seconds()))) * time.Second
	cfg.EventDedupTTL = time.Duration(envInt("EVENT_DEDUP_TTL_HOURS", int(cfg.EventDedupTTL.Hours()))) * time.Hour

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
