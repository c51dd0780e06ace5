package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/baglist-backend/config"
	"github.com/rpupo63/baglist-backend/services"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(settings config.Settings, service *services.Service, verifier TokenVerifier, db Pinger) (Server, error) {
	if service == nil {
		return Server{}, fmt.Errorf("api: nil service")
	}
	address := fmt.Sprintf("0.0.0.0:%s", settings.Port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router := newRouter(service, verifier,
		withSettings(settings),
		withStartupTime(startupTime),
		withPinger(db),
		withRequestLogging(true),
	)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  settings.ReadTimeout,  // Timeout for reading the entire request
		WriteTimeout: settings.WriteTimeout, // Timeout for writing the response
		IdleTimeout:  settings.IdleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	settings       config.Settings
	startupTime    time.Time
	db             Pinger
	requestLogging bool
}

func withSettings(s config.Settings) func(*router) {
	return func(r *router) {
		r.settings = s
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withPinger(db Pinger) func(*router) {
	return func(r *router) {
		r.db = db
	}
}

func withRequestLogging(enabled bool) func(*router) {
	return func(r *router) {
		r.requestLogging = enabled
	}
}

func newRouter(service *services.Service, verifier TokenVerifier, opts ...func(*router)) *chi.Mux {
	router := router{settings: config.Load(nil)}
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(logInternalServerErrors)
	if router.requestLogging {
		chiRouter.Use(requestLogger(consoleLogger()))
	}
	chiRouter.Use(CORSCheckMiddleware(router.settings.AcceptedOrigins))
	chiRouter.Use(corsMiddleware(router.settings.AcceptedOrigins))
	chiRouter.Use(middleware.StripSlashes)
	if router.settings.RequestTimeout > 0 {
		chiRouter.Use(middleware.Timeout(router.settings.RequestTimeout))
	}

	handlers := initializeHandlers(service, router.db, router.startupTime)
	authMiddleware := newAuthMiddleware(verifier, service)

	setupRoutes(chiRouter, handlers, authMiddleware, router.settings.MaxFormBodyBytes)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
