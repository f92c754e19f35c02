package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"taskboard/internal/config"
	"taskboard/pkg/logger"
)

const tasksCacheKey = "tasks:all"

var (
	client *redis.Client
	once   sync.Once
)

// Client returns the global Redis client (initialized on first use).
func Client(ctx context.Context) *redis.Client {
	once.Do(func() {
		cfg := config.Get()
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error(ctx, "Invalid REDIS_URL", "error", err, "url", cfg.RedisURL)
			return
		}
		opts.PoolSize = cfg.RedisPoolSize
		client = redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error(ctx, "Redis ping failed", "error", err)
			return
		}
		logger.Info(ctx, "Redis client initialized", "pool_size", cfg.RedisPoolSize)
	})
	return client
}

func commentsCacheKey(taskToken string) string {
	return "task:" + taskToken + ":comments"
}

func getRaw(ctx context.Context, key string) ([]byte, bool) {
	c := Client(ctx)
	if c == nil {
		return nil, false
	}
	b, err := c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get failed", "key", key, "error", err)
		return nil, false
	}
	return b, true
}

func setRawAsync(key string, b []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c := Client(ctx)
	if c == nil {
		return
	}
	ttl := time.Duration(config.Get().CacheTTL) * time.Second
	if err := c.Set(ctx, key, b, ttl).Err(); err != nil {
		logger.Debug(ctx, "Redis set failed", "key", key, "error", err)
	}
}

// GetRawTasks reads the cached task list as raw JSON bytes.
func GetRawTasks(ctx context.Context) ([]byte, bool) {
	return getRaw(ctx, tasksCacheKey)
}

// SetRawTasksAsync writes the task list bytes in the background with TTL.
func SetRawTasksAsync(b []byte) {
	setRawAsync(tasksCacheKey, b)
}

// InvalidateTasks deletes the task list key so the next read goes to DB.
func InvalidateTasks(ctx context.Context) {
	c := Client(ctx)
	if c == nil {
		return
	}
	if err := c.Del(ctx, tasksCacheKey).Err(); err != nil {
		logger.Debug(ctx, "Redis invalidate tasks failed", "error", err)
	}
}

// GetRawTaskComments reads one task's cached comment thread as raw JSON bytes.
func GetRawTaskComments(ctx context.Context, taskToken string) ([]byte, bool) {
	return getRaw(ctx, commentsCacheKey(taskToken))
}

// SetRawTaskCommentsAsync writes a comment thread's bytes in the background.
func SetRawTaskCommentsAsync(taskToken string, b []byte) {
	setRawAsync(commentsCacheKey(taskToken), b)
}

// InvalidateTaskComments deletes one task's comment thread key.
func InvalidateTaskComments(ctx context.Context, taskToken string) {
	c := Client(ctx)
	if c == nil {
		return
	}
	if err := c.Del(ctx, commentsCacheKey(taskToken)).Err(); err != nil {
		logger.Debug(ctx, "Redis invalidate comments failed", "task", taskToken, "error", err)
	}
}
