package server

import (
	"net/http"

	cartcontroller "hornero/internal/cart/controller"
	"hornero/internal/catalog"
	ordercontroller "hornero/internal/order/controller"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(
	catalogCtrl *catalog.Controller,
	cartCtrl *cartcontroller.CartController,
	orderCtrl *ordercontroller.OrderController,
	limiter *RateLimiter,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(limiter.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", catalogCtrl.HandleListProducts)
		r.Post("/products/search", catalogCtrl.HandleSearchProducts)

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", cartCtrl.CreateCart)
			r.Route("/{cartId}", func(r chi.Router) {
				r.Get("/", cartCtrl.GetCart)
				r.Delete("/", cartCtrl.ClearCart)
				r.Post("/items", cartCtrl.AddItem)
				r.Patch("/items/{productId}", cartCtrl.UpdateItem)
				r.Delete("/items/{productId}", cartCtrl.RemoveItem)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/checkout", orderCtrl.Checkout)
			r.Get("/", orderCtrl.ListOrders)
			r.Route("/{orderId}", func(r chi.Router) {
				r.Get("/", orderCtrl.GetOrder)
				r.Post("/confirm", orderCtrl.ConfirmOrder)
				r.Post("/prepare", orderCtrl.PrepareOrder)
				r.Post("/ready", orderCtrl.ReadyOrder)
				r.Post("/dispatch", orderCtrl.DispatchOrder)
				r.Post("/deliver", orderCtrl.DeliverOrder)
				r.Post("/cancel", orderCtrl.CancelOrder)
			})
		})

		r.Post("/webhooks/payments", orderCtrl.HandleWebhook)
	})

	return r
}
