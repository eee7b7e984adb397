package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marketgraph/marketgraph-backend/config"
	"github.com/marketgraph/marketgraph-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	taxonomyListKey = "taxonomy:list"
	taxonomyListTTL = 10 * time.Minute
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance (nil when Redis is not configured)
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// CacheTaxonomyList stores the serialized taxonomy listing. The taxonomy is
// read on every classification call but changes rarely, so a short TTL plus
// explicit invalidation on node creation is enough.
func CacheTaxonomyList(ctx context.Context, value interface{}) error {
	if client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, taxonomyListKey, data, taxonomyListTTL).Err()
}

// GetCachedTaxonomyList loads the cached taxonomy listing into dest.
// Returns false on a miss (or when Redis is not configured).
func GetCachedTaxonomyList(ctx context.Context, dest interface{}) (bool, error) {
	if client == nil {
		return false, nil
	}

	data, err := client.Get(ctx, taxonomyListKey).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// InvalidateTaxonomyList drops the cached listing after a node is created
func InvalidateTaxonomyList(ctx context.Context) {
	if client == nil {
		return
	}
	if err := client.Del(ctx, taxonomyListKey).Err(); err != nil {
		logger.Warn("Failed to invalidate taxonomy cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
