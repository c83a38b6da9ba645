package wire

import (
	"net/http"

	"chess-shop/internal/adaptor"
	"chess-shop/internal/data/repository"
	"chess-shop/internal/usecase"
	"chess-shop/pkg/middleware"
	"chess-shop/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the assembled dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// guards are the per-route authentication middlewares.
type guards struct {
	auth     func(http.Handler) http.Handler // valid session required
	optional func(http.Handler) http.Handler // principal when a session is present
	admin    func(http.Handler) http.Handler // ADMIN binding required, after auth
}

// Wiring builds services, handlers and the router
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, logger)

	g := guards{
		auth:     middleware.AuthSession(repo.Session, service.User, logger),
		optional: middleware.OptionalSession(repo.Session, service.User, logger),
		admin:    middleware.Admin(logger),
	}

	return &App{
		Router:  setupRouter(handler, g, logger),
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, g guards, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS)

	wireAuth(r, handler.Auth, g)
	wireUser(r, handler.User, g)
	wireProduct(r, handler.Product, g)
	wireComment(r, handler.Comment, g)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
