package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusPaid    OrderStatus = "PAID"
	OrderStatusFailed  OrderStatus = "FAILED"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPaid || s == OrderStatusFailed
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Material  string          `json:"material"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Order is the durable record of one checkout handoff. TxnID is the
// gateway-facing transaction id and doubles as the idempotency key: two
// orders can never share one.
type Order struct {
	ID        uuid.UUID
	TxnID     string
	SessionID string
	Amount    decimal.Decimal
	Currency  string
	Status    OrderStatus
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItemsFromCart snapshots cart contents into order items at checkout
// time, so later cart mutations cannot rewrite what was ordered.
func OrderItemsFromCart(cart *Cart) []OrderItem {
	items := make([]OrderItem, 0, len(cart.Items))
	for _, li := range cart.Items {
		items = append(items, OrderItem{
			ProductID: li.ProductID,
			Name:      li.Name,
			Size:      li.Size,
			Color:     li.Color,
			Material:  li.Material,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
		})
	}
	return items
}
