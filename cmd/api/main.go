package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"billing-cache-api/internal/app"
	"billing-cache-api/internal/config"
	"billing-cache-api/internal/handler"
	"billing-cache-api/internal/ingest"
	"billing-cache-api/internal/middleware"
	"billing-cache-api/internal/router"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.MustLoad()
	app.ConfigureLogging(cfg)
	log.Infof("Starting %s %s...", cfg.App.Name, cfg.App.Version)
	log.Infof("Environment: %s", cfg.App.Environment)

	a, err := app.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Errorf("Shutdown error: %v", err)
		}
	}()
	a.StartBackground()

	// Initialize handlers
	healthHandler := handler.New(cfg.App.Name, cfg.App.Version, map[string]handler.Pinger{
		"mongodb": a.Store,
		"cache":   a.Cache,
	})
	adminHandler := handler.NewAdminHandler(handler.AdminConfig{
		Store:     a.Store,
		Cache:     a.Cache,
		CacheType: cfg.Cache.Type,
		Loader:    a.Loader,
		Source:    ingest.NewSource(cfg.Data.Dir),
		Journal:   a.Journal,
	})

	var authMiddleware func(http.Handler) http.Handler
	if len(cfg.Server.APIKeys) > 0 {
		authMiddleware = middleware.NewAuthMiddleware(middleware.AuthConfig{APIKeys: cfg.Server.APIKeys})
	} else {
		log.Warn("API_KEYS is empty: mutating and admin routes are not authenticated")
	}

	r := router.New(router.Config{
		Handler:        healthHandler,
		QueryHandler:   handler.NewQueryHandler(a.Catalog),
		ClientHandler:  handler.NewClientHandler(a.Clients),
		ProductHandler: handler.NewProductHandler(a.Products),
		AdminHandler:   adminHandler,
		AuthMiddleware: authMiddleware,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		log.Errorf("Server error: %v", err)
	}
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server shutdown error: %v", err)
	}

	log.Info("Server stopped")
	fmt.Println("Goodbye!")
}
