package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/photoframix/storefront/internal/domain"
	"github.com/photoframix/storefront/internal/orders"
	"github.com/photoframix/storefront/internal/payu"
)

var ErrEmptyCart = errors.New("cart is empty")

// CartGetter is the slice of the cart store the initiator needs.
type CartGetter interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
}

type Buyer struct {
	FirstName string
	Email     string
	Phone     string
}

// Handoff is what the browser needs to reach the hosted payment page: the
// form target and the signed fields to auto-submit.
type Handoff struct {
	TxnID      string
	PaymentURL string
	Fields     url.Values
}

type GatewayConfig struct {
	Key        string
	Salt       string
	PaymentURL string
	// BaseURL is this storefront's public origin; callback URLs are derived
	// from it.
	BaseURL  string
	Currency string
}

// Service converts a session's cart into a PayU handoff. A PENDING order is
// written before the user agent ever leaves for the gateway, so every
// callback has a record to reconcile against.
type Service struct {
	carts  CartGetter
	orders orders.OrderRepository
	cfg    GatewayConfig
	logger zerolog.Logger
}

func NewService(carts CartGetter, orderRepo orders.OrderRepository, cfg GatewayConfig, logger zerolog.Logger) *Service {
	return &Service{
		carts:  carts,
		orders: orderRepo,
		cfg:    cfg,
		logger: logger,
	}
}

// InitiateCheckout builds the gateway handoff for the session's cart. The
// empty-cart guard runs before any gateway work or order write.
func (s *Service) InitiateCheckout(ctx context.Context, sessionID string, buyer Buyer) (*Handoff, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	txnID := newTxnID()
	amount := cart.Total()

	order := &domain.Order{
		ID:        uuid.New(),
		TxnID:     txnID,
		SessionID: sessionID,
		Amount:    amount,
		Currency:  s.cfg.Currency,
		Status:    domain.OrderStatusPending,
		Items:     domain.OrderItemsFromCart(cart),
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create pending order: %w", err)
	}

	req := payu.Request{
		Key:         s.cfg.Key,
		TxnID:       txnID,
		Amount:      amount.StringFixed(2),
		ProductInfo: productInfo(cart),
		FirstName:   buyer.FirstName,
		Email:       buyer.Email,
		Phone:       buyer.Phone,
		SuccessURL:  s.cfg.BaseURL + "/payment/success",
		FailureURL:  s.cfg.BaseURL + "/payment/failure",
	}
	req.Hash = payu.RequestHash(req, s.cfg.Salt)

	s.logger.Info().
		Str("session_id", sessionID).
		Str("txnid", txnID).
		Str("amount", req.Amount).
		Msg("checkout initiated")

	return &Handoff{
		TxnID:      txnID,
		PaymentURL: s.cfg.PaymentURL,
		Fields:     req.FormValues(),
	}, nil
}

func newTxnID() string {
	return fmt.Sprintf("PFX-%s", uuid.New())
}

func productInfo(cart *domain.Cart) string {
	return fmt.Sprintf("Custom photo frames (%d items)", len(cart.Items))
}
