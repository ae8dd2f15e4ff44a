package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/photoframix/storefront/internal/cart"
	"github.com/photoframix/storefront/internal/domain"
)

// CartService is the slice of the cart store the HTTP layer uses.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddItem(ctx context.Context, sessionID string, item domain.CartLineItem) (*domain.Cart, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type CartHandler struct {
	carts CartService
}

func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type AddItemRequestDTO struct {
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	BasePrice     string `json:"base_price"`
	SizeSurcharge string `json:"size_surcharge"`
	Size          string `json:"size"`
	Color         string `json:"color"`
	Material      string `json:"material"`
	Quantity      int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Cart  *domain.Cart `json:"cart"`
	Total string       `json:"total"`
}

func cartResponse(c *domain.Cart) CartResponseDTO {
	return CartResponseDTO{
		Cart:  c,
		Total: c.Total().StringFixed(2),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	c, err := h.carts.Get(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	basePrice, err := decimal.NewFromString(req.BasePrice)
	if err != nil || basePrice.IsNegative() {
		respondError(w, http.StatusBadRequest, "invalid_price", "base_price must be a non-negative decimal")
		return
	}
	surcharge := decimal.Zero
	if req.SizeSurcharge != "" {
		surcharge, err = decimal.NewFromString(req.SizeSurcharge)
		if err != nil || surcharge.IsNegative() {
			respondError(w, http.StatusBadRequest, "invalid_price", "size_surcharge must be a non-negative decimal")
			return
		}
	}

	item := domain.NewLineItem(req.ProductID, req.Name, basePrice, surcharge, req.Size, req.Color, req.Material, req.Quantity)

	c, err := h.carts.AddItem(r.Context(), sessionID, item)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add item")
		return
	}

	respondJSON(w, http.StatusCreated, cartResponse(c))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// The store itself accepts any quantity; this is the one place that
	// enforces the range.
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	c, err := h.carts.UpdateQuantity(r.Context(), sessionID, productID, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "item not in cart")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update quantity")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	c, err := h.carts.RemoveItem(r.Context(), sessionID, productID)
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "item not in cart")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove item")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	if err := h.carts.Clear(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// CartPage renders the human-facing cart view.
func (h *CartHandler) CartPage(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	c, err := h.carts.Get(r.Context(), sessionID)
	if err != nil {
		// The cart page always renders, even when the store is unreachable.
		c = &domain.Cart{SessionID: sessionID}
	}

	view := cartPageView{Total: c.Total().StringFixed(2)}
	for _, item := range c.Items {
		view.Items = append(view.Items, cartPageItem{
			Name:     item.Name,
			Size:     item.Size,
			Quantity: item.Quantity,
			Subtotal: item.Subtotal().StringFixed(2),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := cartPageTemplate.Execute(w, view); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to render cart")
	}
}
