package outcome

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/photoframix/storefront/internal/domain"
)

// RedisStash implements the take-once contract with GETDEL, so consumption
// is atomic even if two tabs race to render the same result page.
type RedisStash struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStash(client *redis.Client) *RedisStash {
	return &RedisStash{
		client: client,
		ttl:    15 * time.Minute,
	}
}

func (s *RedisStash) Put(ctx context.Context, kind domain.OutcomeKind, sessionID string, fields map[string]string) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal outcome fields: %w", err)
	}

	if err := s.client.Set(ctx, slotKey(kind, sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStash) Take(ctx context.Context, kind domain.OutcomeKind, sessionID string) (map[string]string, error) {
	data, err := s.client.GetDel(ctx, slotKey(kind, sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis getdel failed: %w", err)
	}

	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		// A corrupt payload renders as an empty summary, never an error page.
		return map[string]string{}, nil
	}
	return fields, nil
}
