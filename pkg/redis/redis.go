package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sjoh/foundly-backend/config"
	"github.com/sjoh/foundly-backend/pkg/logger"
)

// ErrNotInitialized is returned when Init has not been called. Callers
// that treat redis as advisory check for it and carry on.
var ErrNotInitialized = errors.New("redis client not initialized")

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

// GetClient returns the Redis client instance
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

// BlacklistToken adds an access token to the blacklist until it expires
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	if client == nil {
		return ErrNotInitialized
	}
	logger.Debug("Adding token to blacklist", map[string]interface{}{
		"expiry": expiry.String(),
	})

	key := fmt.Sprintf("blacklist:%s", token)
	err := client.Set(ctx, key, "revoked", expiry).Err()
	if err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}

	logger.Debug("Token successfully blacklisted", nil)
	return nil
}

// IsTokenBlacklisted checks if a token is in the blacklist
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if client == nil {
		return false, ErrNotInitialized
	}
	key := fmt.Sprintf("blacklist:%s", token)
	val, err := client.Get(ctx, key).Result()

	if err == redis.Nil {
		// Key does not exist - token is not blacklisted
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false, err
	}

	return val == "revoked", nil
}

// StoreAdminSession records an admin gate session token with a TTL
func StoreAdminSession(ctx context.Context, token string, expiry time.Duration) error {
	if client == nil {
		return ErrNotInitialized
	}
	key := fmt.Sprintf("admin_session:%s", token)
	if err := client.Set(ctx, key, "active", expiry).Err(); err != nil {
		logger.Error("Failed to store admin session", err, nil)
		return err
	}
	return nil
}

// IsAdminSessionActive checks whether an admin session token is still valid
func IsAdminSessionActive(ctx context.Context, token string) (bool, error) {
	if client == nil {
		return false, ErrNotInitialized
	}
	key := fmt.Sprintf("admin_session:%s", token)
	val, err := client.Get(ctx, key).Result()

	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check admin session", err, nil)
		return false, err
	}

	return val == "active", nil
}

// RevokeAdminSession drops an admin session token (admin logout)
func RevokeAdminSession(ctx context.Context, token string) error {
	if client == nil {
		return ErrNotInitialized
	}
	key := fmt.Sprintf("admin_session:%s", token)
	return client.Del(ctx, key).Err()
}

// CacheReportStats stores a serialized dashboard snapshot
func CacheReportStats(ctx context.Context, payload string, expiry time.Duration) error {
	if client == nil {
		return ErrNotInitialized
	}
	if err := client.Set(ctx, "stats:reports", payload, expiry).Err(); err != nil {
		logger.Error("Failed to cache report stats", err, nil)
		return err
	}
	return nil
}

// GetCachedReportStats returns the last dashboard snapshot, empty if none
func GetCachedReportStats(ctx context.Context) (string, error) {
	if client == nil {
		return "", ErrNotInitialized
	}
	val, err := client.Get(ctx, "stats:reports").Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}
