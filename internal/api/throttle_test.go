package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeRateCounter is an in-memory stand-in for the redis commands the
// throttle issues.
type fakeRateCounter struct {
	counts map[string]int64
	ttls   map[string]time.Duration
	err    error
}

func newFakeRateCounter() *fakeRateCounter {
	return &fakeRateCounter{
		counts: make(map[string]int64),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeRateCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.err == nil {
		f.counts[key]++
	}
	return redis.NewIntResult(f.counts[key], f.err)
}

func (f *fakeRateCounter) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	if f.err == nil {
		f.ttls[key] = expiration
	}
	return redis.NewBoolResult(f.err == nil, f.err)
}

func (f *fakeRateCounter) TTL(_ context.Context, key string) *redis.DurationCmd {
	return redis.NewDurationResult(f.ttls[key], f.err)
}

func (f *fakeRateCounter) Set(_ context.Context, key string, _ interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err == nil {
		f.ttls[key] = expiration
	}
	return redis.NewStatusResult("OK", f.err)
}

func (f *fakeRateCounter) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	if f.err == nil {
		for _, key := range keys {
			if _, ok := f.counts[key]; ok {
				removed++
			}
			delete(f.counts, key)
			delete(f.ttls, key)
		}
	}
	return redis.NewIntResult(removed, f.err)
}

func newThrottleForTest(client redisRateCounter) *loginThrottle {
	return &loginThrottle{
		client:        client,
		ratePerHour:   3,
		lockThreshold: 2,
		lockTTL:       15 * time.Minute,
	}
}

func TestThrottleRateLimit(t *testing.T) {
	fake := newFakeRateCounter()
	throttle := newThrottleForTest(fake)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !throttle.allow(ctx, "10.0.0.1", "alice") {
			t.Fatalf("attempt %d must be allowed", i+1)
		}
	}
	if throttle.allow(ctx, "10.0.0.1", "alice") {
		t.Fatal("attempt over the hourly rate must be blocked")
	}

	// Another client IP has its own budget.
	if !throttle.allow(ctx, "10.0.0.2", "alice") {
		t.Fatal("a different IP must have its own rate budget")
	}
}

func TestThrottleLockout(t *testing.T) {
	fake := newFakeRateCounter()
	throttle := newThrottleForTest(fake)
	ctx := context.Background()

	throttle.recordFailure(ctx, "alice")
	if !throttle.allow(ctx, "10.0.0.1", "alice") {
		t.Fatal("one failure must not lock the account")
	}

	throttle.recordFailure(ctx, "alice")
	if throttle.allow(ctx, "10.0.0.1", "alice") {
		t.Fatal("reaching the failure threshold must lock the account")
	}

	// Case-insensitive on the username.
	if throttle.allow(ctx, "10.0.0.1", "Alice") {
		t.Fatal("lockout must not be bypassed by changing username case")
	}
}

func TestThrottleResetClearsFailures(t *testing.T) {
	fake := newFakeRateCounter()
	throttle := newThrottleForTest(fake)
	ctx := context.Background()

	throttle.recordFailure(ctx, "alice")
	throttle.reset(ctx, "alice")
	throttle.recordFailure(ctx, "alice")

	if !throttle.allow(ctx, "10.0.0.1", "alice") {
		t.Fatal("failures before a successful login must not count toward lockout")
	}
}

func TestThrottleFailsOpenOnRedisErrors(t *testing.T) {
	fake := newFakeRateCounter()
	fake.err = errors.New("connection refused")
	throttle := newThrottleForTest(fake)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if !throttle.allow(ctx, "10.0.0.1", "alice") {
			t.Fatal("a broken throttle must not block logins")
		}
		throttle.recordFailure(ctx, "alice")
	}
}

func TestNilThrottleAllowsEverything(t *testing.T) {
	var throttle *loginThrottle
	ctx := context.Background()

	if !throttle.allow(ctx, "10.0.0.1", "alice") {
		t.Fatal("a nil throttle must allow all attempts")
	}
	throttle.recordFailure(ctx, "alice")
	throttle.reset(ctx, "alice")
}
