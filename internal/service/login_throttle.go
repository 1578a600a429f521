package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle counts failed logins per email.
type LoginThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// RedisLoginThrottle keeps failure counters in Redis. A counter expires one
// window after the first failure it recorded.
type RedisLoginThrottle struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewRedisLoginThrottle builds a throttle; maxAttempts <= 0 disables it.
func NewRedisLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *RedisLoginThrottle {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisLoginThrottle{client: client, maxAttempts: maxAttempts, window: window}
}

func (t *RedisLoginThrottle) key(email string) string {
	return "login_failures:" + strings.ToLower(strings.TrimSpace(email))
}

func (t *RedisLoginThrottle) disabled() bool {
	return t == nil || t.client == nil || t.maxAttempts <= 0
}

// Allow reports whether another attempt may be made for email.
func (t *RedisLoginThrottle) Allow(ctx context.Context, email string) (bool, error) {
	if t.disabled() {
		return true, nil
	}
	count, err := t.client.Get(ctx, t.key(email)).Int()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	return count < t.maxAttempts, nil
}

// RecordFailure increments the failure counter for email.
func (t *RedisLoginThrottle) RecordFailure(ctx context.Context, email string) error {
	if t.disabled() {
		return nil
	}
	key := t.key(email)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return t.client.Expire(ctx, key, t.window).Err()
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *RedisLoginThrottle) Reset(ctx context.Context, email string) error {
	if t.disabled() {
		return nil
	}
	return t.client.Del(ctx, t.key(email)).Err()
}

type noopThrottle struct{}

func (noopThrottle) Allow(context.Context, string) (bool, error) { return true, nil }
func (noopThrottle) RecordFailure(context.Context, string) error { return nil }
func (noopThrottle) Reset(context.Context, string) error { return nil }
