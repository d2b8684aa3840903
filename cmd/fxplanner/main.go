// Package main запускает HTTP-сервер сервиса планирования конвертаций.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/fxplanner-system/internal/config"
	"github.com/mmeshcher/fxplanner-system/internal/handler"
	"github.com/mmeshcher/fxplanner-system/internal/middleware"
	"github.com/mmeshcher/fxplanner-system/internal/rates"
	"github.com/mmeshcher/fxplanner-system/internal/repository"
	"github.com/mmeshcher/fxplanner-system/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo := repository.NewMemory()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DemoSeed {
		if err := repo.Seed(ctx); err != nil {
			sugar.Fatalw("demo seed error", "error", err.Error())
		}
		sugar.Info("demo plans seeded")
	}

	var ratesClient *rates.Client
	if cfg.RatesSystemAddress != "" {
		ratesClient = rates.NewClient(cfg.RatesSystemAddress)
	}

	svc := service.New(repo, ratesClient, cfg.Settings(), logger)
	defer svc.Close()

	auth := middleware.NewAuth(middleware.DefaultUsers())
	h := handler.NewHandler(svc, logger, auth)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	g, ctx := errgroup.WithContext(ctx)

	// Запуск фонового обновления курсов
	g.Go(func() error {
		svc.StartRateUpdates(ctx)
		return nil
	})

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting fxplanner server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
