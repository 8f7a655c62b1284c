// Package app assembles the module services and the HTTP router.
package app

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/georgemunganga/bookstore-backend/internal/modules/auth"
	"github.com/georgemunganga/bookstore-backend/internal/modules/cart"
	"github.com/georgemunganga/bookstore-backend/internal/modules/catalog"
	"github.com/georgemunganga/bookstore-backend/internal/modules/order"
	"github.com/georgemunganga/bookstore-backend/internal/modules/review"
	"github.com/georgemunganga/bookstore-backend/internal/modules/user"
	"github.com/georgemunganga/bookstore-backend/internal/platform/events"
	"github.com/georgemunganga/bookstore-backend/internal/platform/web"
	"github.com/georgemunganga/bookstore-backend/internal/store"
)

// Repositories is one storage backend for every module.
type Repositories struct {
	Users   user.Repository
	Books   catalog.Repository
	Carts   cart.Repository
	Orders  order.Repository
	Reviews review.Repository
}

// MemoryRepositories exposes the in-memory store.
func MemoryRepositories(m *store.Memory) Repositories {
	return Repositories{
		Users:   m.Users(),
		Books:   m.Books(),
		Carts:   m.Carts(),
		Orders:  m.Orders(),
		Reviews: m.Reviews(),
	}
}

// PostgresRepositories exposes the PostgreSQL repositories over db.
func PostgresRepositories(db *sql.DB) Repositories {
	return Repositories{
		Users:   user.NewPostgresRepository(db),
		Books:   catalog.NewPostgresRepository(db),
		Carts:   cart.NewPostgresRepository(db),
		Orders:  order.NewPostgresRepository(db),
		Reviews: review.NewPostgresRepository(db),
	}
}

// Options configures New.
type Options struct {
	Repos     Repositories
	Tokens    *auth.TokenCodec
	Publisher events.Publisher
	Logger    *slog.Logger

	// Users overrides the user service; tests use a cheap bcrypt cost.
	Users user.Service

	CORSAllowedOrigins []string
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Ready backs /healthz when set.
	Ready func(ctx context.Context) error
}

// App is the wired application.
type App struct {
	Router http.Handler
	Users  user.Service
	Books  catalog.Service
}

// New builds every service and mounts its routes.
func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	repos := opts.Repos
	guard := auth.NewGuard(opts.Tokens)

	userService := opts.Users
	if userService == nil {
		userService = user.NewService(repos.Users)
	}
	authService := auth.NewService(userService, repos.Users, opts.Tokens)
	catalogService := catalog.NewService(repos.Books)
	cartService := cart.NewService(repos.Carts, cart.NewCatalogPricer(repos.Books))
	orderService := order.NewService(repos.Orders, opts.Publisher, logger)
	reviewService := review.NewService(repos.Reviews, repos.Books)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   orDefault(opts.CORSAllowedOrigins, "*"),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if opts.Ready != nil {
			if err := opts.Ready(r.Context()); err != nil {
				logger.ErrorContext(r.Context(), "readiness check failed", "error", err)
				web.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		web.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	// ── Identity ────────────────────────────────────────────
	auth.NewHandler(authService, guard).RegisterRoutes(router)
	user.NewHandler(userService, guard.Require(web.Error, user.RoleAdmin)).RegisterRoutes(router)

	// ── Catalog & reviews ───────────────────────────────────
	catalog.NewHandler(catalogService, guard).RegisterRoutes(router)
	review.NewHandler(reviewService, guard).RegisterRoutes(router)

	// ── Cart & orders ───────────────────────────────────────
	cart.NewHandler(cartService, guard).RegisterRoutes(router)
	order.NewHandler(orderService, guard).RegisterRoutes(router)

	return &App{Router: router, Users: userService, Books: catalogService}
}

func orDefault(list []string, def string) []string {
	if len(list) == 0 {
		return []string{def}
	}
	return list
}
