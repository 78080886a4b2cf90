package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/flowtrack/flow-tracker-api/internal/apperror"
	"github.com/flowtrack/flow-tracker-api/internal/config"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth           *AuthHandler
	User           *UserHandler
	Category       *CategoryHandler
	Flow           *FlowHandler
	AuthMiddleware *AuthMiddleware
	Responder      *Responder
}

// NewRouter builds the HTTP router with the full middleware stack and the
// versioned API routes.
func NewRouter(logger *zerolog.Logger, cfg *config.Config, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(*logger))
	r.Use(hlog.AccessHandler(func(req *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(req).Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	r.NotFound(h.Responder.Handle(func(w http.ResponseWriter, req *http.Request) error {
		return apperror.NotFound(fmt.Sprintf("Can't find %s on this server!", req.URL.Path))
	}))

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Route("/v1", func(r chi.Router) {
			r.Route("/users", func(r chi.Router) {
				r.Post("/signup", h.Responder.Handle(h.Auth.Signup))
				r.Post("/login", h.Responder.Handle(h.Auth.Login))
				r.Get("/logout", h.Responder.Handle(h.Auth.Logout))
				r.Post("/forgotPassword", h.Responder.Handle(h.Auth.ForgotPassword))
				r.Patch("/resetPassword/{token}", h.Responder.Handle(h.Auth.ResetPassword))

				r.Group(func(r chi.Router) {
					r.Use(h.AuthMiddleware.Protect)

					r.Get("/", h.Responder.Handle(h.User.ListUsers))
					r.Get("/me", h.Responder.Handle(h.User.GetMe))
					r.Patch("/updateMe", h.Responder.Handle(h.User.UpdateMe))
					r.Patch("/updateMyPassword", h.Responder.Handle(h.Auth.UpdatePassword))
					r.Delete("/deleteMe", h.Responder.Handle(h.User.DeleteMe))
				})
			})

			r.Route("/finances", func(r chi.Router) {
				r.Use(h.AuthMiddleware.Protect)

				r.Post("/{id}", h.Responder.Handle(h.Category.CreateCategory))
				r.Put("/{id}", h.Responder.Handle(h.Category.RenameCategory))
				r.Delete("/{id}", h.Responder.Handle(h.Category.DeleteCategory))
			})

			r.Route("/flow", func(r chi.Router) {
				r.Use(h.AuthMiddleware.Protect)

				r.Get("/expenses-getFlowStats", h.Responder.Handle(h.Flow.GetFlowStats))
				r.Get("/expenses", h.Responder.Handle(h.Flow.ListFlows))
				r.Post("/{id}", h.Responder.Handle(h.Flow.CreateFlow))
			})
		})
	})

	return r
}
