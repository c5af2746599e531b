package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/artnebula/artnebula-backend/api/controllers"
	"github.com/artnebula/artnebula-backend/api/middleware"
	authsvc "github.com/artnebula/artnebula-backend/internal/auth"
	cartsvc "github.com/artnebula/artnebula-backend/internal/cart"
	"github.com/artnebula/artnebula-backend/internal/catalog"
	checkoutsvc "github.com/artnebula/artnebula-backend/internal/checkout"
	ordersvc "github.com/artnebula/artnebula-backend/internal/orders"
	paymentsvc "github.com/artnebula/artnebula-backend/internal/payments"
	salessvc "github.com/artnebula/artnebula-backend/internal/sales"
	"github.com/artnebula/artnebula-backend/pkg/auth/session"
	"github.com/artnebula/artnebula-backend/pkg/config"
	"github.com/artnebula/artnebula-backend/pkg/db"
	"github.com/artnebula/artnebula-backend/pkg/logger"
	"github.com/artnebula/artnebula-backend/pkg/metrics"
	"github.com/artnebula/artnebula-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Sessions    session.Checker
	HTTPMetrics *metrics.HTTPMetrics

	Auth     authsvc.Service
	Catalog  catalog.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Payments paymentsvc.Service
	Orders   ordersvc.Service
	Sales    salessvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.CORS(),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	authPolicy := middleware.NewAuthRateLimitPolicy(
		"auth",
		cfg.RateLimit.AuthWindow,
		cfg.RateLimit.AuthIPLimit,
		cfg.RateLimit.AuthEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(authPolicy, deps.Redis, logg)).Post("/register", controllers.Register(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(authPolicy, deps.Redis, logg)).Post("/login", controllers.Login(deps.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).Post("/logout", controllers.Logout(deps.Auth, logg))
	})

	// Storefront browsing needs no account.
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.Catalog, logg))
		r.Get("/{productID}", controllers.GetProduct(deps.Catalog, logg))
	})
	r.Get("/api/categories", controllers.ListCategories(deps.Catalog, logg))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(deps.Cart, logg))
			r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
			r.Delete("/items/{productID}", controllers.RemoveCartItem(deps.Cart, logg))
			r.Put("/items", controllers.UpdateCartQuantities(deps.Cart, logg))
			r.Delete("/", controllers.ClearCart(deps.Cart, logg))
			r.Post("/select", controllers.SelectForCheckout(deps.Cart, logg))
		})

		r.Post("/checkout", controllers.PlaceOrder(deps.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListMyOrders(deps.Orders, logg))
			r.Get("/{orderID}", controllers.GetMyOrder(deps.Orders, logg))
			r.Post("/{orderID}/payment", controllers.SubmitPayment(deps.Payments, logg))
			r.Post("/{orderID}/verify-receipt", controllers.VerifyReceipt(deps.Orders, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Post("/products", controllers.AdminCreateProduct(deps.Catalog, logg))
			r.Put("/products/{productID}", controllers.AdminUpdateProduct(deps.Catalog, logg))
			r.Delete("/products/{productID}", controllers.AdminDeleteProduct(deps.Catalog, logg))

			r.Post("/categories", controllers.AdminCreateCategory(deps.Catalog, logg))
			r.Put("/categories/{categoryID}", controllers.AdminUpdateCategory(deps.Catalog, logg))
			r.Delete("/categories/{categoryID}", controllers.AdminDeleteCategory(deps.Catalog, logg))

			r.Get("/orders", controllers.AdminListOrders(deps.Orders, logg))
			r.Get("/orders/{orderID}", controllers.AdminGetOrder(deps.Orders, logg))
			r.Put("/orders/{orderID}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))

			r.Get("/sales-report", controllers.SalesReport(deps.Sales, logg))
		})
	})

	return r
}
