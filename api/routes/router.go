package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/routeflow/routeflow-backend/api/controllers"
	"github.com/routeflow/routeflow-backend/api/middleware"
	"github.com/routeflow/routeflow-backend/internal/auth"
	"github.com/routeflow/routeflow-backend/internal/notifications"
	"github.com/routeflow/routeflow-backend/internal/orders"
	"github.com/routeflow/routeflow-backend/internal/partners"
	"github.com/routeflow/routeflow-backend/pkg/auth/session"
	"github.com/routeflow/routeflow-backend/pkg/config"
	"github.com/routeflow/routeflow-backend/pkg/db"
	"github.com/routeflow/routeflow-backend/pkg/logger"
	"github.com/routeflow/routeflow-backend/pkg/metrics"
	"github.com/routeflow/routeflow-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	broker *notifications.Broker,
	authService auth.Service,
	ordersService orders.Service,
	partnersService partners.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
	}

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

	readyChecks := map[string]controllers.ReadyCheck{}
	if dbP != nil {
		readyChecks["database"] = dbP.Ping
	}
	if redisClient != nil {
		readyChecks["redis"] = redisClient.Ping
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyChecks))
	})

	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.With(middleware.Auth(cfg.JWT, sessionChecker, logg)).Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/events", controllers.OrderEvents(broker, logg))
			r.Post("/", controllers.CreateOrder(ordersService, logg))
			r.Get("/", controllers.ListOrders(ordersService, logg))
			r.Get("/{id}", controllers.GetOrder(ordersService, logg))
			r.Get("/number/{orderNumber}", controllers.GetOrderByNumber(ordersService, logg))
			r.Put("/{id}/status", controllers.UpdateOrderStatus(ordersService, logg))
			r.Put("/{id}/assign", controllers.AssignOrder(ordersService, logg))
			r.Post("/{id}/auto-assign", controllers.AutoAssignOrder(ordersService, logg))
			r.Put("/{id}/cancel", controllers.CancelOrder(ordersService, logg))
			r.Get("/{id}/history", controllers.OrderHistory(ordersService, logg))
		})

		r.Route("/partners", func(r chi.Router) {
			r.Get("/", controllers.ListPartners(partnersService, logg))
			r.Get("/available", controllers.AvailablePartners(partnersService, logg))
			r.Get("/{id}", controllers.GetPartner(partnersService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, "ADMIN", "OPERATOR"))
				r.Post("/", controllers.CreatePartner(partnersService, logg))
				r.Put("/{id}/status", controllers.UpdatePartnerStatus(partnersService, logg))
			})
		})
	})

	return r
}
