package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisLimiter struct {
	client *redis.Client
	now    func() time.Time
	limit  int
	per    time.Duration
}

// loginAttemptScript counts an attempt and starts the window on the first
// one, atomically, so concurrent logins cannot race the expiry.
var loginAttemptScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Limit    int
	Window   time.Duration
	Now      func() time.Time
}

func NewRedisLimiter(cfg RedisConfig) (LoginLimiter, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis addr is required")
	}
	if cfg.Limit <= 0 {
		return Unlimited{}, nil
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &redisLimiter{client: client, now: cfg.Now, limit: cfg.Limit, per: cfg.Window}, nil
}

func (r *redisLimiter) Allow(ctx context.Context, username string) (bool, time.Time, error) {
	key := "login_attempts:" + username
	result, err := loginAttemptScript.Run(ctx, r.client, []string{key}, r.per.Milliseconds()).Result()
	if err != nil {
		return false, time.Time{}, fmt.Errorf("login limiter: %w", err)
	}
	values, ok := result.([]any)
	if !ok || len(values) < 2 {
		return false, time.Time{}, errors.New("unexpected login limiter response")
	}
	current, ok := values[0].(int64)
	if !ok {
		return false, time.Time{}, errors.New("invalid login limiter counter")
	}
	retryAt := r.now()
	if ttlMillis, ok := values[1].(int64); ok && ttlMillis > 0 {
		retryAt = retryAt.Add(time.Duration(ttlMillis) * time.Millisecond)
	}
	return current <= int64(r.limit), retryAt, nil
}
