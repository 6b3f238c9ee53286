// Package server assembles the HTTP router: global middleware, the public auth and health
// routes, the bearer-protected API and the operational endpoints.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/user/jobtrack-go/apperror"
	"github.com/user/jobtrack-go/applications"
	"github.com/user/jobtrack-go/auth"
	"github.com/user/jobtrack-go/config"
	"github.com/user/jobtrack-go/health"
	"github.com/user/jobtrack-go/logger"
	"github.com/user/jobtrack-go/metrics"
	"github.com/user/jobtrack-go/users"

	_ "github.com/user/jobtrack-go/docs" // registers the OpenAPI document
)

const requestTimeout = 60 * time.Second

// Deps are the services the router dispatches to. Metrics may be nil.
type Deps struct {
	Config       *config.ServerConfig
	Logger       *zap.Logger
	Auth         *auth.Service
	Tokens       *auth.TokenService
	Resolver     *auth.Resolver
	Applications *applications.Service
	Health       *health.Handler
	Metrics      *metrics.Metrics
}

// NewRouter builds the application's http.Handler.
func NewRouter(deps Deps) http.Handler {
	var onFailure auth.FailureFunc
	if deps.Metrics != nil {
		onFailure = deps.Metrics.AuthFailure
	}
	authHandlers := auth.NewHandlers(deps.Auth, deps.Tokens, onFailure)
	userHandlers := users.NewHandlers()
	appHandlers := applications.NewHandlers()

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apperror.WriteError(w, r, apperror.NewNotFoundError("Not Found", nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apperror.WriteJSON(w, http.StatusMethodNotAllowed, apperror.ErrorResponse{Error: "Method Not Allowed"})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route(deps.Config.APIPrefix, func(r chi.Router) {
		deps.Health.RegisterRoutes(r)

		r.Post("/token", authHandlers.HandleToken())
		r.Post("/register", authHandlers.HandleRegister())

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(deps.Resolver, onFailure))

			r.Get("/me", userHandlers.HandleGetMe())

			r.Group(func(r chi.Router) {
				r.Use(applications.ScopeMiddleware(deps.Applications))
				appHandlers.RegisterRoutes(r)
			})
		})
	})

	return r
}

// recoverer turns a handler panic into a 500 with the standard error body.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				logger.From(r.Context()).Error("panic recovered",
					zap.Any("panic", rvr),
					zap.Stack("stack"),
				)
				apperror.WriteError(w, r, apperror.NewInternalError("internal server error", fmt.Errorf("panic: %v", rvr)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
