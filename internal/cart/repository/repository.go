package repository

import (
	"context"
	"errors"

	"github.com/photoframix/storefront/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// CartRepository is the durable persistence adapter behind the cart store.
// Save always writes the whole snapshot; the store is write-through, every
// mutation lands here before it is acknowledged.
type CartRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
