package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gearghar/gearghar-backend/api/controllers"
	"github.com/gearghar/gearghar-backend/api/middleware"
	"github.com/gearghar/gearghar-backend/internal/auth"
	"github.com/gearghar/gearghar-backend/internal/dashboard"
	"github.com/gearghar/gearghar-backend/internal/orders"
	"github.com/gearghar/gearghar-backend/internal/products"
	"github.com/gearghar/gearghar-backend/internal/users"
	"github.com/gearghar/gearghar-backend/pkg/config"
	"github.com/gearghar/gearghar-backend/pkg/db"
	"github.com/gearghar/gearghar-backend/pkg/logger"
	"github.com/gearghar/gearghar-backend/pkg/metrics"
	"github.com/gearghar/gearghar-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	AuthService      auth.Service
	ProductsService  products.Service
	OrdersService    orders.Service
	DashboardService dashboard.Service
	UsersRepo        *users.Repository
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, deps.Redis, logg),
			middleware.Idempotency(deps.Redis, logg),
		).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/admin-login", controllers.AdminAuthLogin(deps.AuthService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.ProductsService, logg))
		r.Get("/{productId}", controllers.ProductDetail(deps.ProductsService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/me", controllers.Me(deps.UsersRepo, logg))
		r.With(middleware.Idempotency(deps.Redis, logg)).Post("/checkout", controllers.Checkout(deps.OrdersService, logg))
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.OrdersService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Get("/dashboard", controllers.AdminDashboard(deps.DashboardService, logg))
		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUserList(deps.UsersRepo, logg))
			r.Patch("/{userId}", controllers.AdminUserUpdate(deps.UsersRepo, logg))
			r.Delete("/{userId}", controllers.AdminUserDelete(deps.UsersRepo, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductCreate(deps.ProductsService, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(deps.ProductsService, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(deps.ProductsService, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(deps.OrdersService, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(deps.OrdersService, logg))
		})
	})

	return r
}
