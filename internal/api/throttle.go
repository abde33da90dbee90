package api

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"resumeforge/internal/config"
)

// redisRateCounter is the slice of the redis client the throttle needs;
// tests substitute a fake.
type redisRateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// loginThrottle rate-limits login attempts per IP+username and locks a
// username out after repeated failures. Redis errors fail open: a broken
// throttle must not lock everyone out of login.
type loginThrottle struct {
	client        redisRateCounter
	ratePerHour   int
	lockThreshold int
	lockTTL       time.Duration
}

// newLoginThrottle returns nil when no redis client is configured, which
// disables throttling entirely.
func newLoginThrottle(client *redis.Client, cfg config.RedisConfig) *loginThrottle {
	if client == nil {
		return nil
	}
	return &loginThrottle{
		client:        client,
		ratePerHour:   cfg.LoginRateLimitPerHour,
		lockThreshold: cfg.LoginLockThreshold,
		lockTTL:       cfg.LoginLockTTL,
	}
}

// allow reports whether a login attempt may proceed.
func (t *loginThrottle) allow(ctx context.Context, ip, username string) bool {
	if t == nil {
		return true
	}

	username = strings.ToLower(username)

	rateKey := "rate:login:" + ip + ":" + username + ":" + time.Now().UTC().Format("2006010215")
	count, err := incrWithTTL(ctx, t.client, rateKey, time.Hour)
	if err == nil && count > int64(t.ratePerHour) {
		return false
	}

	if ttl, err := t.client.TTL(ctx, "lock:login:"+username).Result(); err == nil && ttl > 0 {
		return false
	}

	return true
}

// recordFailure counts a failed attempt and locks the username once the
// threshold is reached.
func (t *loginThrottle) recordFailure(ctx context.Context, username string) {
	if t == nil {
		return
	}

	username = strings.ToLower(username)
	failKey := "lock:login:fail:" + username
	count, err := t.client.Incr(ctx, failKey).Result()
	if err != nil {
		return
	}
	if count == 1 {
		_ = t.client.Expire(ctx, failKey, t.lockTTL).Err()
	}
	if count >= int64(t.lockThreshold) {
		_ = t.client.Set(ctx, "lock:login:"+username, "1", t.lockTTL).Err()
	}
}

// reset clears the failure count after a successful login.
func (t *loginThrottle) reset(ctx context.Context, username string) {
	if t == nil {
		return
	}
	username = strings.ToLower(username)
	_ = t.client.Del(ctx, "lock:login:fail:"+username).Err()
}

func incrWithTTL(ctx context.Context, client redisRateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}
