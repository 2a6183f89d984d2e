package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"pomodoro-api-svc/src/internal/config"
	"pomodoro-api-svc/src/internal/dependency"
	"pomodoro-api-svc/src/internal/middleware"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg    *config.Configuration
	router *gin.Engine
}

func New(cfg *config.Configuration) *Server {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	return &Server{
		cfg:    cfg,
		router: router,
	}
}

// Start wires the dependencies, serves HTTP and blocks until SIGINT/SIGTERM.
func (s *Server) Start() error {
	deps, err := dependency.NewDependencyManager(s.router, s.cfg)
	if err != nil {
		log.WithError(err).Error("Failed to initialize dependencies")
		return err
	}
	defer deps.Close(context.Background())

	SetupRoutes(deps)

	httpServer := &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Server listening on port %s", s.cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		if err != nil {
			log.WithError(err).Error("Server stopped unexpectedly")
			return err
		}
		return nil
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		return err
	}

	log.Info("Server exited gracefully")
	return nil
}
