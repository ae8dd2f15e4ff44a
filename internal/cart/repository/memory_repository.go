package repository

import (
	"context"
	"sync"

	"github.com/photoframix/storefront/internal/domain"
)

// MemoryRepository keeps carts in a map. Used in tests and as a fallback when
// no MongoDB is configured.
type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		carts: make(map[string]*domain.Cart),
	}
}

func (m *MemoryRepository) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cart, ok := m.carts[sessionID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return copyCart(cart), nil
}

func (m *MemoryRepository) Save(_ context.Context, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.SessionID] = copyCart(cart)
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.carts[sessionID]; !ok {
		return ErrCartNotFound
	}
	delete(m.carts, sessionID)
	return nil
}

// copyCart isolates stored state from caller mutations of the items slice.
func copyCart(cart *domain.Cart) *domain.Cart {
	dup := *cart
	dup.Items = make([]domain.CartLineItem, len(cart.Items))
	copy(dup.Items, cart.Items)
	return &dup
}
