package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/sitebook/internal/app"
	"github.com/MrJamesThe3rd/sitebook/internal/config"
	sitebookHttp "github.com/MrJamesThe3rd/sitebook/internal/http"
	expenseHandler "github.com/MrJamesThe3rd/sitebook/internal/http/expense"
	paymentHandler "github.com/MrJamesThe3rd/sitebook/internal/http/payment"
	projectHandler "github.com/MrJamesThe3rd/sitebook/internal/http/project"
	reportHandler "github.com/MrJamesThe3rd/sitebook/internal/http/report"
	stageHandler "github.com/MrJamesThe3rd/sitebook/internal/http/stage"
	"github.com/MrJamesThe3rd/sitebook/internal/importer"
	"github.com/MrJamesThe3rd/sitebook/internal/logger"
	"github.com/MrJamesThe3rd/sitebook/internal/matching"
	"github.com/MrJamesThe3rd/sitebook/internal/report"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open ledger", "error", err)
		os.Exit(1)
	}

	var (
		importService = importer.NewService(importer.WithCategorizer(matching.NewService(l.Store)))
		reportService = report.NewService(l.Store)
	)

	router := sitebookHttp.New(
		cfg.CORS.AllowedOrigins,
		projectHandler.NewHandler(l.Store),
		stageHandler.NewHandler(l.Store),
		expenseHandler.NewHandler(l.Store, importService),
		paymentHandler.NewHandler(l.Store),
		reportHandler.NewHandler(reportService),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("starting server", "addr", srv.Addr, "app", cfg.App.Name)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server failed", "error", err)
		_ = l.Close(context.Background())
		os.Exit(1)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := l.Close(closeCtx); err != nil {
		log.Error("failed to close ledger", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
