package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoframix/storefront/internal/cart/cache"
	"github.com/photoframix/storefront/internal/cart/repository"
	"github.com/photoframix/storefront/internal/domain"
)

type mockRepository struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockRepository) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockRepository) Save(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cart = c
	return nil
}

func (m *mockRepository) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return repository.ErrCartNotFound
	}
	m.cart = nil
	return nil
}

func (m *mockRepository) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

func (m *mockCache) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func frame(productID string, price string, quantity int) domain.CartLineItem {
	return domain.NewLineItem(productID, "Frame "+productID, dec(price), decimal.Zero, "8x10", "black", "wood", quantity)
}

func newSut(repo *mockRepository, c *mockCache) *Service {
	return NewService(repo, c, zerolog.Nop())
}

func TestGet_CacheMiss_LoadsFromRepo(t *testing.T) {
	stored := &domain.Cart{
		SessionID: "s1",
		Items:     []domain.CartLineItem{frame("frame-1", "499", 2)},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	mockRepo := &mockRepository{cart: stored}
	mockC := &mockCache{cart: nil}

	sut := newSut(mockRepo, mockC)
	ret, err := sut.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, ret.Items, 1)
	assert.Equal(t, "frame-1", ret.Items[0].ProductID)

	require.Eventually(t, func() bool {
		return mockC.getCart() != nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cart was not set in cache")
}

func TestGet_CacheHit_SkipsRepo(t *testing.T) {
	cached := &domain.Cart{
		SessionID: "s1",
		Items:     []domain.CartLineItem{frame("frame-1", "499", 3)},
	}
	mockRepo := &mockRepository{err: fmt.Errorf("repo should not be called")}
	mockC := &mockCache{cart: cached}

	sut := newSut(mockRepo, mockC)
	ret, err := sut.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, ret.Items, 1)
}

func TestGet_UnknownSession_ReturnsEmptyCart(t *testing.T) {
	mockRepo := &mockRepository{}
	mockC := &mockCache{}

	sut := newSut(mockRepo, mockC)
	ret, err := sut.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", ret.SessionID)
	assert.Empty(t, ret.Items)
}

func TestGet_RepoError(t *testing.T) {
	mockRepo := &mockRepository{err: fmt.Errorf("database error")}
	mockC := &mockCache{}

	sut := newSut(mockRepo, mockC)
	ret, err := sut.Get(context.Background(), "s1")
	require.ErrorContains(t, err, "database error")
	assert.Nil(t, ret)
}

func TestAddItem_WritesThrough(t *testing.T) {
	mockRepo := &mockRepository{}
	mockC := &mockCache{}

	sut := newSut(mockRepo, mockC)
	ret, err := sut.AddItem(context.Background(), "s1", frame("frame-1", "499", 2))
	require.NoError(t, err)

	// The persisted snapshot must equal the returned collection after every
	// mutation.
	persisted := mockRepo.getCart()
	require.NotNil(t, persisted)
	assert.Equal(t, ret.Items, persisted.Items)

	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}

func TestAddItem_DuplicateIdentity_LastWriteWins(t *testing.T) {
	mockRepo := &mockRepository{}
	mockC := &mockCache{}

	sut := newSut(mockRepo, mockC)
	_, err := sut.AddItem(context.Background(), "s1", frame("frame-1", "499", 2))
	require.NoError(t, err)
	ret, err := sut.AddItem(context.Background(), "s1", frame("frame-1", "499", 7))
	require.NoError(t, err)

	require.Len(t, ret.Items, 1)
	assert.Equal(t, 7, ret.Items[0].Quantity)
	require.Len(t, mockRepo.getCart().Items, 1)
	assert.Equal(t, 7, mockRepo.getCart().Items[0].Quantity)
}

func TestAddItem_RepoError(t *testing.T) {
	mockRepo := &mockRepository{err: fmt.Errorf("database error")}
	mockC := &mockCache{}

	sut := newSut(mockRepo, mockC)
	_, err := sut.AddItem(context.Background(), "s1", frame("frame-1", "499", 2))
	require.ErrorContains(t, err, "database error")
}

func TestUpdateQuantity_WritesThrough(t *testing.T) {
	mockRepo := &mockRepository{cart: &domain.Cart{
		SessionID: "s1",
		Items:     []domain.CartLineItem{frame("frame-1", "499", 2)},
	}}
	mockC := &mockCache{cart: mockRepo.cart}

	sut := newSut(mockRepo, mockC)
	ret, err := sut.UpdateQuantity(context.Background(), "s1", "frame-1", 9)
	require.NoError(t, err)
	assert.Equal(t, 9, ret.Items[0].Quantity)
	assert.Equal(t, 9, mockRepo.getCart().Items[0].Quantity)

	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}

func TestUpdateQuantity_ItemMissing(t *testing.T) {
	mockRepo := &mockRepository{cart: &domain.Cart{SessionID: "s1"}}
	mockC := &mockCache{}

	sut := newSut(mockRepo, mockC)
	_, err := sut.UpdateQuantity(context.Background(), "s1", "frame-1", 9)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItem_WritesThrough(t *testing.T) {
	mockRepo := &mockRepository{cart: &domain.Cart{
		SessionID: "s1",
		Items: []domain.CartLineItem{
			frame("frame-1", "499", 2),
			frame("frame-2", "299", 1),
		},
	}}
	mockC := &mockCache{cart: mockRepo.cart}

	sut := newSut(mockRepo, mockC)
	ret, err := sut.RemoveItem(context.Background(), "s1", "frame-1")
	require.NoError(t, err)
	require.Len(t, ret.Items, 1)
	assert.Equal(t, "frame-2", ret.Items[0].ProductID)
	assert.Equal(t, ret.Items, mockRepo.getCart().Items)

	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}

func TestClear_DeletesSnapshot(t *testing.T) {
	mockRepo := &mockRepository{cart: &domain.Cart{
		SessionID: "s1",
		Items:     []domain.CartLineItem{frame("frame-1", "499", 2)},
	}}
	mockC := &mockCache{cart: mockRepo.cart}

	sut := newSut(mockRepo, mockC)
	require.NoError(t, sut.Clear(context.Background(), "s1"))
	assert.Nil(t, mockRepo.getCart())
	assert.Nil(t, mockC.getCart())
}

func TestClear_AlreadyEmptyIsFine(t *testing.T) {
	mockRepo := &mockRepository{}
	mockC := &mockCache{}

	sut := newSut(mockRepo, mockC)
	assert.NoError(t, sut.Clear(context.Background(), "s1"))
}

func TestTotal(t *testing.T) {
	mockRepo := &mockRepository{cart: &domain.Cart{
		SessionID: "s1",
		Items: []domain.CartLineItem{
			frame("frame-1", "499.50", 2),
			frame("frame-2", "300", 3),
		},
	}}
	mockC := &mockCache{}

	sut := newSut(mockRepo, mockC)
	total, err := sut.Total(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("1899")))
}

func TestTotal_EmptyCartIsZero(t *testing.T) {
	sut := newSut(&mockRepository{}, &mockCache{})

	total, err := sut.Total(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}
