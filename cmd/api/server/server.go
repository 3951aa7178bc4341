package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginhandler "github.com/Ivanildsdev/myrecipebook/internal/adapter/gin/handler"
	"github.com/Ivanildsdev/myrecipebook/internal/adapter/gin/middleware"
	ginrouter "github.com/Ivanildsdev/myrecipebook/internal/adapter/gin/router"
	"github.com/Ivanildsdev/myrecipebook/internal/config"
	"github.com/Ivanildsdev/myrecipebook/internal/usecase/user"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance
func New(
	cfg *config.Config,
	l *zap.Logger,
	handler *ginhandler.UserHandler,
	tokens middleware.AccessTokenValidator,
	repo user.ReadRepository,
) *Server {
	router := ginrouter.SetupRouter(handler, tokens, repo, l)

	httpServer := &http.Server{
		Addr:              ":" + cfg.App.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{
		Config: cfg,
		Logger: l,
		HTTP:   httpServer,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.HTTP.Addr))

	if err := s.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
