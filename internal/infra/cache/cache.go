package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	keyPrefixRule = "sched:rule:"
	keyPolicy     = "sched:policy"
)

// redisClient подмножество команд go-redis, которое использует кэш
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Cache read-through кэш правил доступности и политики в Redis (JSON + TTL)
type Cache struct {
	client redisClient
	ttl    time.Duration
}

// New создает кэш поверх клиента Redis
func New(client redisClient, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// RuleKey ключ правила дня недели
func RuleKey(dayOfWeek int) string {
	return keyPrefixRule + strconv.Itoa(dayOfWeek)
}

// PolicyKey ключ политики
func PolicyKey() string {
	return keyPolicy
}

// GetRule возвращает правило из кэша или ErrCacheMiss
func (c *Cache) GetRule(ctx context.Context, dayOfWeek int) (*domain.AvailabilityRule, error) {
	var entry ruleEntry
	if err := c.get(ctx, RuleKey(dayOfWeek), &entry); err != nil {
		return nil, err
	}
	return entry.toDomain(), nil
}

// SetRule кладет правило в кэш
func (c *Cache) SetRule(ctx context.Context, rule *domain.AvailabilityRule) error {
	return c.set(ctx, RuleKey(rule.DayOfWeek), toRuleEntry(rule))
}

// InvalidateRules удаляет правила указанных дней (без аргументов удаляет все семь)
func (c *Cache) InvalidateRules(ctx context.Context, days ...int) error {
	if len(days) == 0 {
		days = []int{0, 1, 2, 3, 4, 5, 6}
	}
	keys := make([]string, 0, len(days))
	for _, day := range days {
		keys = append(keys, RuleKey(day))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: del %v: %v", ErrRedis, keys, err)
	}
	return nil
}

// GetPolicy возвращает политику из кэша или ErrCacheMiss
func (c *Cache) GetPolicy(ctx context.Context) (*domain.SchedulingPolicy, error) {
	var entry policyEntry
	if err := c.get(ctx, PolicyKey(), &entry); err != nil {
		return nil, err
	}
	return entry.toDomain(), nil
}

// SetPolicy кладет политику в кэш
func (c *Cache) SetPolicy(ctx context.Context, policy *domain.SchedulingPolicy) error {
	return c.set(ctx, PolicyKey(), toPolicyEntry(policy))
}

// InvalidatePolicy удаляет политику из кэша
func (c *Cache) InvalidatePolicy(ctx context.Context) error {
	if err := c.client.Del(ctx, PolicyKey()).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %v", ErrRedis, PolicyKey(), err)
	}
	return nil
}

func (c *Cache) get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("%w: get %s: %v", ErrRedis, key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, key, err)
	}
	return nil
}

func (c *Cache) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrRedis, key, err)
	}
	return nil
}

// Noop кэш, который ничего не хранит. Используется при выключенном Redis
type Noop struct{}

func (Noop) GetRule(context.Context, int) (*domain.AvailabilityRule, error) {
	return nil, ErrCacheMiss
}

func (Noop) SetRule(context.Context, *domain.AvailabilityRule) error { return nil }

func (Noop) InvalidateRules(context.Context, ...int) error { return nil }

func (Noop) GetPolicy(context.Context) (*domain.SchedulingPolicy, error) {
	return nil, ErrCacheMiss
}

func (Noop) SetPolicy(context.Context, *domain.SchedulingPolicy) error { return nil }

func (Noop) InvalidatePolicy(context.Context) error { return nil }
