package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPPort         string
	DatabaseURL      string
	DBPoolSize       int
	RedisURL         string
	RedisPoolSize    int
	CacheTTL         int // seconds
	KafkaBrokers     []string
	KafkaTopic       string
	KafkaPartitions  int
	SubscriberBuffer int // events buffered per live subscription
}

var (
	cfg     *Config
	cfgOnce sync.Once
)

// Get returns the application config (loads once from env).
func Get() *Config {
	cfgOnce.Do(func() {
		cfg = &Config{
			HTTPPort:         getEnv("HTTP_PORT", "8080"),
			DatabaseURL:      os.Getenv("DATABASE_URL"),
			DBPoolSize:       getIntEnv("DB_POOL_SIZE", 50),
			RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
			RedisPoolSize:    getIntEnv("REDIS_POOL_SIZE", 100),
			CacheTTL:         getIntEnv("CACHE_TTL_SEC", 300),
			KafkaBrokers:     getSliceEnv("KAFKA_BROKERS"),
			KafkaTopic:       getEnv("KAFKA_EVENTS_TOPIC", "task-comment-events"),
			KafkaPartitions:  getIntEnv("KAFKA_PARTITIONS", 16),
			SubscriberBuffer: getIntEnv("SUBSCRIBER_BUFFER", 64),
		}
	})
	return cfg
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

// getSliceEnv parses a comma-separated list. Empty env means the feature
// behind it (kafka) stays disabled.
func getSliceEnv(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
