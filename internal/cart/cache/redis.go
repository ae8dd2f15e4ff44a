package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/photoframix/storefront/internal/domain"
)

const keyPrefix = "cart:session:"

// RedisCache fronts the durable cart repository. Entries expire on their own;
// the service invalidates eagerly on every write, so the TTL only bounds how
// long a stale entry can outlive a missed invalidation.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisCache) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %q: %w", sessionID, err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("decode cached cart %q: %w", sessionID, err)
	}
	return &cart, nil
}

func (r *RedisCache) Set(ctx context.Context, sessionID string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart %q: %w", sessionID, err)
	}

	if err := r.client.Set(ctx, keyPrefix+sessionID, data, jitteredTTL(r.ttl)).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", sessionID, err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("cache delete %q: %w", sessionID, err)
	}
	return nil
}

// jitteredTTL spreads expiries across ttl..ttl*1.2 so carts cached in the
// same burst do not all refill at once.
func jitteredTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	return ttl + time.Duration(rand.Int63n(int64(ttl/5)+1))
}
