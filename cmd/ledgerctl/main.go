package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/brazaforte/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/brazaforte/internal/budget/store"
	"github.com/MrJamesThe3rd/brazaforte/internal/config"
	"github.com/MrJamesThe3rd/brazaforte/internal/database"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/brazaforte/internal/ledger/store"
	"github.com/MrJamesThe3rd/brazaforte/internal/logging"
)

var cfg *config.Config

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Maintenance commands for the Brazaforte ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return initConfig()
		},
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(recomputeCmd())
	root.AddCommand(balancesCmd())
	root.AddCommand(varianceCmd())
	root.AddCommand(tokenCmd())

	return root
}

func initConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	var err error
	if cfg, err = config.Load(); err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	slog.SetDefault(logger)

	return nil
}

type services struct {
	db      *sql.DB
	ledger  *ledger.Service
	budgets *budget.Service
}

func (s *services) Close() error {
	return s.db.Close()
}

func openServices(ctx context.Context) (*services, error) {
	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	l := ledger.NewService(ledgerStore.New(db), ledger.WithLogger(slog.Default()))

	return &services{
		db:      db,
		ledger:  l,
		budgets: budget.NewService(budgetStore.New(db), l),
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}
