package http

import (
	"net/http"
	"time"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
	"github.com/Priyanka-Kadel/Cookbook-backend/internal/kv"
	"github.com/Priyanka-Kadel/Cookbook-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type RouterDeps struct {
	Logger             zerolog.Logger
	Tokens             TokenParser
	Sessions           kv.SessionStore
	Recipes            RecipeService
	Carts              CartService
	Orders             OrderService
	Checkout           CheckoutService
	Payments           PaymentService
	CallbackRPS        float64
	CallbackBurst      int
	ClientSuccessURL   string
	ClientFailureURL   string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	TrustProxyHeaders  bool
}

func NewRouter(d RouterDeps) http.Handler {
	recipeHandler := NewRecipeHandler(d.Recipes, d.RequestTimeout)
	cartHandler := NewCartHandler(d.Carts, d.RequestTimeout)
	ordersHandler := NewOrdersHandler(d.Orders, d.RequestTimeout)
	checkoutHandler := NewCheckoutHandler(d.Checkout, d.Payments, d.ClientSuccessURL, d.ClientFailureURL, d.RequestTimeout)
	authHandler := NewAuthHandler(d.Sessions, d.RequestTimeout)
	callbackLimiter := NewRateLimiter(d.CallbackRPS, d.CallbackBurst)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	// forwarded headers are client-controlled unless a proxy overwrites them
	if d.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(logger.Middleware(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(d.RequestTimeout))
	r.Use(middleware.Compress(5))
	if d.MaxRequestBodySize > 0 {
		r.Use(middleware.RequestSize(d.MaxRequestBodySize))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authenticated := AuthMiddleware(d.Tokens, d.Sessions)
	adminOnly := RequireRole(domain.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(authenticated).Post("/auth/logout", authHandler.Logout)

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/{id}", recipeHandler.GetRecipe)
			r.Post("/{id}/calculate-price", recipeHandler.CalculatePrice)
			r.With(authenticated, adminOnly).Post("/", recipeHandler.CreateRecipe)
			r.With(authenticated, adminOnly).Delete("/{id}", recipeHandler.DeleteRecipe)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/", cartHandler.GetCart)
			r.Post("/add", cartHandler.AddItem)
			r.Put("/update", cartHandler.UpdateItem)
			r.Delete("/remove/{itemId}", cartHandler.RemoveItem)
			r.Delete("/clear", cartHandler.ClearCart)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/my-orders", ordersHandler.ListMyOrders)
			r.With(adminOnly).Get("/", ordersHandler.ListAllOrders)
			r.Get("/{id}", ordersHandler.GetOrder)
			r.Put("/{id}/cancel", ordersHandler.CancelOrder)
			r.With(adminOnly).Put("/{id}/status", ordersHandler.UpdateStatus)
		})

		r.Route("/esewa", func(r chi.Router) {
			r.With(authenticated).Post("/create/{recipeId}", checkoutHandler.CreateDirectOrder)
			r.With(authenticated).Post("/create-from-cart", checkoutHandler.CreateOrderFromCart)
			r.With(callbackLimiter.Middleware).Get("/success", checkoutHandler.PaymentSuccess)
		})
	})

	return r
}
