package service

import (
	"context"
	"time"

	appRedis "github.com/sjoh/foundly-backend/pkg/redis"
)

// SessionStore persists admin gate session tokens
type SessionStore interface {
	Store(ctx context.Context, token string, expiry time.Duration) error
	IsActive(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string) error
}

// TokenBlacklist holds revoked JWTs until their natural expiry
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

type redisSessionStore struct{}

// NewRedisSessionStore returns the redis-backed admin session store
func NewRedisSessionStore() SessionStore {
	return redisSessionStore{}
}

func (redisSessionStore) Store(ctx context.Context, token string, expiry time.Duration) error {
	return appRedis.StoreAdminSession(ctx, token, expiry)
}

func (redisSessionStore) IsActive(ctx context.Context, token string) (bool, error) {
	return appRedis.IsAdminSessionActive(ctx, token)
}

func (redisSessionStore) Revoke(ctx context.Context, token string) error {
	return appRedis.RevokeAdminSession(ctx, token)
}

type redisTokenBlacklist struct{}

// NewRedisTokenBlacklist returns the redis-backed JWT blacklist
func NewRedisTokenBlacklist() TokenBlacklist {
	return redisTokenBlacklist{}
}

func (redisTokenBlacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	return appRedis.BlacklistToken(ctx, token, ttl)
}
