package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"sugurico/cmd/app"
	"sugurico/internal/config"
	handlers "sugurico/internal/handler"
	"sugurico/internal/logger"
	"sugurico/internal/metrics"
	"sugurico/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()
	log := logger.New(cfg.LogLevel)

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY が設定されていません")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.InitMetrics()

	db, services, err := app.App(ctx, cfg, log, m)
	if err != nil {
		log.WithError(err).Fatal("起動に失敗しました")
	}
	defer db.CloseDB()

	handler := handlers.NewHandlers(services, cfg, log)

	handlerChain := middleware.Chain(
		app.Router(handler, m),
		middleware.Recover(log),
		middleware.CORSMiddleware,
		middleware.Logging(log),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           handlerChain,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server stopped")
}
