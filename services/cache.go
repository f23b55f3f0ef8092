package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"questionbank/models"

	"github.com/redis/go-redis/v9"
)

// QueryCache caches query results per filter. Lookup returns the key a miss
// should be stored under; it is bound to the cache state seen by the lookup,
// so a page read before an Invalidate is never served after it.
type QueryCache interface {
	Lookup(ctx context.Context, filter QuestionFilter) (key string, questions []models.Question, hit bool, err error)
	Store(ctx context.Context, key string, questions []models.Question) error
	Invalidate(ctx context.Context) error
}

// RedisQueryCache stores pages under a generation-numbered key. Invalidate
// bumps the generation instead of scanning keys; old pages age out by TTL.
type RedisQueryCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisQueryCache(client *redis.Client, ttl time.Duration) *RedisQueryCache {
	return &RedisQueryCache{
		client: client,
		ttl:    ttl,
		prefix: "questions",
	}
}

func (c *RedisQueryCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.prefix+":gen").Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisQueryCache) key(gen int64, filter QuestionFilter) string {
	return fmt.Sprintf("%s:v%d:%s", c.prefix, gen, filter.Key())
}

func (c *RedisQueryCache) Lookup(ctx context.Context, filter QuestionFilter) (string, []models.Question, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return "", nil, false, err
	}
	key := c.key(gen, filter)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return key, nil, false, nil
	}
	if err != nil {
		return "", nil, false, err
	}

	var questions []models.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return key, nil, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return key, questions, true, nil
}

func (c *RedisQueryCache) Store(ctx context.Context, key string, questions []models.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *RedisQueryCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.prefix+":gen").Err()
}
