package rest

import (
	"context"
	"net/http"
	"time"

	"blog-backend/interfaces/http/rest/handlers"
	"blog-backend/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// HealthChecker reports whether the post store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Options configures the optional parts of the HTTP surface
type Options struct {
	TokenParser          middleware.TokenParser
	TrustGatewayIdentity bool // caller set by middleware.ApplyAuthorizerIdentity; bearer tokens are ignored
	Metrics              middleware.HTTPMetrics
	MetricsHandler       http.Handler
	Health               HealthChecker
	EnableCORS           bool
	CORSAllowedOrigins   []string
}

// Router creates and configures the HTTP router
type Router struct {
	dispatcher handlers.Dispatcher
	logger     *zap.Logger
	opts       Options
}

// NewRouter creates a new router instance
func NewRouter(dispatcher handlers.Dispatcher, logger *zap.Logger, opts Options) *Router {
	return &Router{
		dispatcher: dispatcher,
		logger:     logger,
		opts:       opts,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger, rt.opts.Metrics))

	if rt.opts.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.opts.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.opts.MetricsHandler != nil {
		router.Handle("/metrics", rt.opts.MetricsHandler)
	}

	router.Group(func(r chi.Router) {
		switch {
		case rt.opts.TrustGatewayIdentity:
			r.Use(middleware.GatewayIdentity(rt.logger))
		case rt.opts.TokenParser != nil:
			r.Use(middleware.Authenticate(rt.opts.TokenParser, rt.logger))
		}

		r.Post("/graphql/resolve", handlers.NewGraphQLHandler(rt.dispatcher, rt.logger).Resolve)

		r.Route("/api/v1", func(r chi.Router) {
			postHandler := handlers.NewPostHandler(rt.dispatcher, rt.logger)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", postHandler.ListPosts)
				r.Post("/", postHandler.CreatePost)
				r.Get("/{postID}", postHandler.GetPost)
				r.Put("/{postID}", postHandler.UpdatePost)
				r.Patch("/{postID}", postHandler.UpdatePost)
				r.Delete("/{postID}", postHandler.DeletePost)
			})

			r.Get("/users/{username}/posts", postHandler.ListUserPosts)
			r.Get("/me/posts", postHandler.ListMyPosts)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck pings the post store
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if rt.opts.Health != nil {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := rt.opts.Health.Ping(ctx); err != nil {
			rt.logger.Warn("Readiness check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
