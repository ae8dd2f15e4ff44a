package cache

import (
	"context"
	"errors"

	"github.com/photoframix/storefront/internal/domain"
)

var ErrCacheMiss = errors.New("cart not found in cache")

// CartCache is a read-through accelerator in front of the durable repository.
// Cache errors are never fatal to a cart operation.
type CartCache interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Set(ctx context.Context, sessionID string, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
