package http

import (
	"net/http"
	"time"

	"github.com/photoframix/storefront/internal/domain"
	"github.com/photoframix/storefront/internal/orders"
)

type OrdersHandler struct {
	repo orders.OrderRepository
}

func NewOrdersHandler(repo orders.OrderRepository) *OrdersHandler {
	return &OrdersHandler{repo: repo}
}

type OrderDTO struct {
	ID        string             `json:"id"`
	TxnID     string             `json:"txnid"`
	Amount    string             `json:"amount"`
	Currency  string             `json:"currency"`
	Status    string             `json:"status"`
	Items     []domain.OrderItem `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
}

// ListOrders handles GET /api/v1/orders: the session's order history, newest
// first.
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	list, err := h.repo.ListOrdersBySession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}

	dtos := make([]OrderDTO, 0, len(list))
	for _, order := range list {
		dtos = append(dtos, OrderDTO{
			ID:        order.ID.String(),
			TxnID:     order.TxnID,
			Amount:    order.Amount.StringFixed(2),
			Currency:  order.Currency,
			Status:    order.Status.String(),
			Items:     order.Items,
			CreatedAt: order.CreatedAt,
		})
	}

	respondJSON(w, http.StatusOK, dtos)
}
