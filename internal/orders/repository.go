package orders

import (
	"context"
	"errors"

	"github.com/photoframix/storefront/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateTxn   = errors.New("order with this txnid already exists")
	ErrNotTransitable = errors.New("order is not in a transitable state")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OrderRepository stores the durable order records the checkout initiator
// creates and the callback receiver reconciles.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByTxnID(ctx context.Context, txnID string) (*domain.Order, error)
	// UpdateStatus transitions an order out of PENDING. Transitions from a
	// terminal status return ErrNotTransitable, which makes duplicate gateway
	// callbacks harmless.
	UpdateStatus(ctx context.Context, txnID string, status domain.OrderStatus) error
	ListOrdersBySession(ctx context.Context, sessionID string) ([]*domain.Order, error)
	Close() error
}
