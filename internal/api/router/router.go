package router

import (
	"net/http"

	"github.com/RoyceAzure/lab/bookstore/internal/api/handler"
	m "github.com/RoyceAzure/lab/bookstore/internal/api/middleware"
	"github.com/RoyceAzure/lab/bookstore/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Handlers struct {
	Book     *handler.BookHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
}

func SetupRouter(h Handlers, permissions service.IPermissionService, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.RecoverMiddleware(logger))
	r.Use(m.LoggerMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// API 路由
	r.Route("/api/v1", func(r chi.Router) {
		// 書目瀏覽不需登入
		r.Route("/books", func(r chi.Router) {
			r.Get("/", h.Book.ListBooks)
			r.Get("/{bookID}", h.Book.GetBook)
		})

		r.Group(func(r chi.Router) {
			r.Use(m.AuthMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.ViewCart)
				r.Post("/add", h.Cart.AddToCart)
				r.Post("/update", h.Cart.UpdateCart)
				r.Post("/remove", h.Cart.RemoveFromCart)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Use(m.RequirePermission(permissions, "checkout:execute"))
				r.Post("/", h.Checkout.BeginCheckout)
				r.Post("/complete", h.Checkout.CompleteCheckout)
				// 金流 redirect return 走 GET
				r.Get("/complete", h.Checkout.CompleteCheckout)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.Order.ListMyOrders)
				r.Get("/{orderID}", h.Order.GetOrder)
			})

			r.Route("/admin/books", func(r chi.Router) {
				r.Use(m.RequirePermission(permissions, "books:write"))
				r.Post("/", h.Book.CreateBook)
				r.Put("/{bookID}", h.Book.UpdateBook)
			})

			r.Route("/admin/orders", func(r chi.Router) {
				r.With(m.RequirePermission(permissions, "orders:update_status")).
					Patch("/{orderID}/status", h.Order.UpdateOrderStatus)
				r.With(m.RequirePermission(permissions, "orders:update_shipping")).
					Patch("/{orderID}/shipping", h.Order.UpdateShipping)
			})
		})
	})

	return r
}
