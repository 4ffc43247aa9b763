package handler

import (
	"net/http"

	"github.com/Dan9191/posts-service/internal/config"
	"github.com/Dan9191/posts-service/internal/metrics"
	"github.com/Dan9191/posts-service/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// NewRouter wires every route of the API. The returned handler applies
// CORS in front of the router.
func NewRouter(h *Handler, auth middleware.Authenticator, cfg *config.Config, log *logrus.Logger) http.Handler {
	requestLogger := middleware.RequestLogger(log)

	r := mux.NewRouter()
	r.Use(requestLogger, metrics.InstrumentHandler)
	r.NotFoundHandler = requestLogger(http.HandlerFunc(NotFound))
	r.MethodNotAllowedHandler = requestLogger(http.HandlerFunc(MethodNotAllowed))

	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	r.HandleFunc("/healthz", h.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/test", h.Test).Methods("GET")

	// Public routes
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log)
	api.Handle("/register", limiter.Handler(http.HandlerFunc(h.Register))).Methods("POST")
	api.Handle("/login", limiter.Handler(http.HandlerFunc(h.Login))).Methods("POST")

	// Protected routes
	authRouter := api.NewRoute().Subrouter()
	authRouter.Use(middleware.AuthMiddleware(auth, log))
	authRouter.HandleFunc("/user", h.User).Methods("GET")
	authRouter.HandleFunc("/profile", h.Profile).Methods("GET")
	authRouter.HandleFunc("/logout", h.Logout).Methods("POST")
	authRouter.HandleFunc("/post", h.CreatePost).Methods("POST")
	authRouter.HandleFunc("/post", h.ReadPosts).Methods("GET")
	authRouter.HandleFunc("/post/{id:[0-9]+}", h.UpdatePost).Methods("PUT")
	authRouter.HandleFunc("/post/{id:[0-9]+}", h.DeletePost).Methods("DELETE")

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})
	return c.Handler(r)
}
