package cart

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/photoframix/storefront/internal/cart/cache"
	"github.com/photoframix/storefront/internal/cart/repository"
	"github.com/photoframix/storefront/internal/domain"
)

// Service owns the authoritative cart for each storefront session. Every
// mutation writes the whole snapshot through to the repository before it
// returns; the cache only ever holds what the repository already has.
type Service struct {
	repo   repository.CartRepository
	cache  cache.CartCache
	sfg    singleflight.Group // Prevents cache stampede
	logger zerolog.Logger
}

func NewService(repo repository.CartRepository, cartCache cache.CartCache, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cartCache,
		logger: logger,
	}
}

func (s *Service) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("cache get error")
		}

		cart, errGet := s.repo.Get(ctx, sessionID)
		if errGet != nil && errors.Is(errGet, repository.ErrCartNotFound) {
			// A session that never added anything simply has an empty cart.
			return emptyCart(sessionID), nil
		}
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), sessionID, cart)
			if errSet != nil {
				s.logger.Warn().Err(errSet).Str("session_id", sessionID).Msg("cache set error")
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem replaces any entry sharing the item's product identity
// (last-write-wins) or appends, then persists the whole snapshot.
func (s *Service) AddItem(ctx context.Context, sessionID string, item domain.CartLineItem) (*domain.Cart, error) {
	cart, err := s.loadForWrite(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	cart.UpsertItem(item)

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	cart, err := s.loadForWrite(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !cart.RemoveItem(productID) {
		return nil, ErrItemNotFound
	}

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets the quantity on the matching item. It deliberately does
// not validate quantity > 0 here; the HTTP layer is responsible for that.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	cart, err := s.loadForWrite(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !cart.SetQuantity(productID, quantity) {
		return nil, ErrItemNotFound
	}

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	err := s.repo.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("repo delete cart error")
		return err
	}

	s.invalidateCache(sessionID)
	return nil
}

// Total sums unit price times quantity across the session's cart.
func (s *Service) Total(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return decimal.Zero, err
	}
	return cart.Total(), nil
}

func (s *Service) loadForWrite(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return emptyCart(sessionID), nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("repo get cart error")
		return nil, err
	}
	return cart, nil
}

func (s *Service) persist(ctx context.Context, cart *domain.Cart) error {
	if err := s.repo.Save(ctx, cart); err != nil {
		s.logger.Error().Err(err).Str("session_id", cart.SessionID).Msg("repo save cart error")
		return err
	}

	s.invalidateCache(cart.SessionID)
	return nil
}

func (s *Service) invalidateCache(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("cache invalidate error")
	}
}

func emptyCart(sessionID string) *domain.Cart {
	now := time.Now()
	return &domain.Cart{
		SessionID: sessionID,
		Items:     nil,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
