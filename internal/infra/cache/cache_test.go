package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// fakeRedis хранит значения в памяти и запоминает TTL последней записи
type fakeRedis struct {
	data    map[string]string
	lastTTL time.Duration
	failGet error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failGet != nil {
		return redis.NewStringResult("", f.failGet)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.lastTTL = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestCache_RuleRoundTripAndInvalidate(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	c := New(fake, 5*time.Minute)

	_, err := c.GetRule(ctx, 1)
	require.ErrorIs(t, err, ErrCacheMiss)

	rule := &domain.AvailabilityRule{
		DayOfWeek:         1,
		StartTime:         types.MustTimeOfDay("09:00"),
		EndTime:           types.EndOfDay,
		IsActive:          true,
		BufferAfter:       10,
		MaxMeetingsPerDay: 4,
	}
	require.NoError(t, c.SetRule(ctx, rule))
	assert.Equal(t, 5*time.Minute, fake.lastTTL)
	assert.Contains(t, fake.data, "sched:rule:1")

	got, err := c.GetRule(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, rule, got)

	require.NoError(t, c.InvalidateRules(ctx))
	_, err = c.GetRule(ctx, 1)
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_Policy(t *testing.T) {
	ctx := context.Background()
	c := New(newFakeRedis(), time.Minute)

	policy := domain.DefaultSchedulingPolicy("Europe/Moscow")
	policy.LunchBreakEnabled = true
	require.NoError(t, c.SetPolicy(ctx, policy))

	got, err := c.GetPolicy(ctx)
	require.NoError(t, err)
	assert.Equal(t, policy, got)

	require.NoError(t, c.InvalidatePolicy(ctx))
	_, err = c.GetPolicy(ctx)
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_RedisErrorIsNotMiss(t *testing.T) {
	fake := newFakeRedis()
	fake.failGet = errors.New("connection refused")
	c := New(fake, time.Minute)

	_, err := c.GetPolicy(context.Background())
	require.ErrorIs(t, err, ErrRedis)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestNoop_AlwaysMisses(t *testing.T) {
	var c Noop
	ctx := context.Background()

	require.NoError(t, c.SetRule(ctx, &domain.AvailabilityRule{DayOfWeek: 2}))
	_, err := c.GetRule(ctx, 2)
	require.ErrorIs(t, err, ErrCacheMiss)

	_, err = c.GetPolicy(ctx)
	require.ErrorIs(t, err, ErrCacheMiss)
}
