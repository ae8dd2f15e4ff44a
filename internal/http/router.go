package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterDeps struct {
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Callback *CallbackHandler
	Result   *ResultHandler
	Orders   *OrdersHandler
}

// NewRouter assembles the full storefront surface: JSON API, gateway
// callbacks and the human-facing pages.
func NewRouter(deps RouterDeps, requestTimeout time.Duration, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(SessionMiddleware)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", deps.Cart.GetCart)
			r.Post("/items", deps.Cart.AddItem)
			r.Put("/items/{product_id}", deps.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", deps.Cart.RemoveItem)
			r.Delete("/", deps.Cart.ClearCart)
		})
		r.Post("/checkout", deps.Checkout.InitiateCheckout)
		r.Get("/orders", deps.Orders.ListOrders)
	})

	// Gateway-facing callback endpoints. PayU posts the outcome here via the
	// user agent; a plain GET lands on the bare result page.
	r.Post("/payment/success", deps.Callback.Success)
	r.Get("/payment/success", deps.Callback.Success)
	r.Post("/payment/failure", deps.Callback.Failure)
	r.Get("/payment/failure", deps.Callback.Failure)

	// Human-facing pages.
	r.Get("/cart", deps.Cart.CartPage)
	r.Get("/success", deps.Result.Success)
	r.Get("/failure", deps.Result.Failure)

	return otelhttp.NewHandler(r, "storefront")
}
