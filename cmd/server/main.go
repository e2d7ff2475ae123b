package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fahmidurshanto/custom-cms/internal/bootstrap"
	"github.com/fahmidurshanto/custom-cms/internal/config"
	"github.com/fahmidurshanto/custom-cms/internal/infrastructure/session"
	"github.com/fahmidurshanto/custom-cms/internal/interfaces/web"
)

func main() {
	cfg, err := config.Load(config.DefaultEnvFiles...)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := cfg.Logger()
	gin.SetMode(cfg.GinMode)

	// Build the entity catalog and one gateway per backend resource
	console, err := bootstrap.InitializeConsole(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize console")
	}
	logger.WithField("entities", len(console.Schemas())).Info("Entity catalog loaded")

	store := session.NewStore(cfg.SessionTTL, console.NewWorkspace)
	router, err := web.NewRouter(cfg, logger, console, store)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build router")
	}

	logger.Infof("Console:      http://localhost:%s/", cfg.Port)
	logger.Infof("Backend API:  %s", cfg.APIBaseURL)
	logger.Infof("Health check: http://localhost:%s/health", cfg.Port)

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for SIGINT or SIGTERM, then give in-flight requests 5 seconds
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exiting")
}
