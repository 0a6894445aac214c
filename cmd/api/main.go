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

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/brazaforte/internal/auth"
	"github.com/MrJamesThe3rd/brazaforte/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/brazaforte/internal/budget/store"
	"github.com/MrJamesThe3rd/brazaforte/internal/client"
	clientStore "github.com/MrJamesThe3rd/brazaforte/internal/client/store"
	"github.com/MrJamesThe3rd/brazaforte/internal/config"
	"github.com/MrJamesThe3rd/brazaforte/internal/database"
	"github.com/MrJamesThe3rd/brazaforte/internal/export"
	brazaHttp "github.com/MrJamesThe3rd/brazaforte/internal/http"
	accountHandler "github.com/MrJamesThe3rd/brazaforte/internal/http/account"
	budgetHandler "github.com/MrJamesThe3rd/brazaforte/internal/http/budget"
	categoryHandler "github.com/MrJamesThe3rd/brazaforte/internal/http/category"
	clientHandler "github.com/MrJamesThe3rd/brazaforte/internal/http/client"
	financeHandler "github.com/MrJamesThe3rd/brazaforte/internal/http/finance"
	importHandler "github.com/MrJamesThe3rd/brazaforte/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/brazaforte/internal/http/matching"
	txHandler "github.com/MrJamesThe3rd/brazaforte/internal/http/transaction"
	"github.com/MrJamesThe3rd/brazaforte/internal/importer"
	"github.com/MrJamesThe3rd/brazaforte/internal/importer/statement"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/brazaforte/internal/ledger/store"
	"github.com/MrJamesThe3rd/brazaforte/internal/logging"
	"github.com/MrJamesThe3rd/brazaforte/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/brazaforte/internal/matching/store"
	"github.com/MrJamesThe3rd/brazaforte/internal/retry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	slog.SetDefault(logger)

	if err := cfg.RequireAuth(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(cfg.ConnectionString()); err != nil {
		return err
	}

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	policy := retry.Policy{MaxAttempts: cfg.Retry.MaxAttempts, InitialDelay: cfg.Retry.InitialDelay}

	var (
		ledgerService   = ledger.NewService(ledgerStore.New(db), ledger.WithLogger(logger))
		clientService   = client.NewService(clientStore.New(db))
		budgetService   = budget.NewService(budgetStore.New(db), ledgerService)
		matchingService = matching.NewService(matchingStore.New(db))
		importService   = importer.NewService(statement.NewParser(), matchingService, ledgerService, logger)
		exportService   = export.NewService(ledgerService)
	)

	router := brazaHttp.New(brazaHttp.Handlers{
		Clients:      clientHandler.NewHandler(clientService),
		Categories:   categoryHandler.NewHandler(ledgerService),
		Accounts:     accountHandler.NewHandler(ledgerService, exportService, policy),
		Transactions: txHandler.NewHandler(ledgerService, policy),
		Budgets:      budgetHandler.NewHandler(budgetService),
		Import:       importHandler.NewHandler(importService, policy, cfg.Server.MaxUploadBytes),
		Rules:        matchingHandler.NewHandler(matchingService),
		Finance:      financeHandler.NewHandler(),
	}, auth.New(cfg.Auth.Secret, cfg.Auth.Issuer).Middleware, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}
