package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/brazaforte/internal/auth"
	"github.com/MrJamesThe3rd/brazaforte/internal/budget"
	"github.com/MrJamesThe3rd/brazaforte/internal/database"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := database.Migrate(cfg.ConnectionString()); err != nil {
				return err
			}

			version, dirty, err := database.MigrationVersion(cfg.ConnectionString())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("schema at version %d (dirty: %t)", version, dirty)))

			return nil
		},
	}
}

func recomputeCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Rebuild every account balance from confirmed transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				confirmed := false

				err := huh.NewConfirm().
					Title("Recompute all account balances?").
					Description("Every cached balance is rewritten from the ledger.").
					Affirmative("Recompute").
					Negative("Cancel").
					Value(&confirmed).
					Run()
				if err != nil {
					return fmt.Errorf("asking for confirmation: %w", err)
				}

				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}

			svc, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.ledger.RecomputeAllBalances(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("balances recomputed"))

			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func balancesCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Show account balances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			accounts, err := svc.ledger.ListAccounts(cmd.Context(), ledger.AccountFilter{})
			if err != nil {
				return err
			}

			if !check {
				fmt.Fprintln(cmd.OutOrStdout(), balancesTable(accounts, nil))
				return nil
			}

			drifts, err := svc.ledger.CheckBalances(cmd.Context())
			if err != nil {
				return err
			}

			if drifts == nil {
				drifts = []ledger.Drift{}
			}

			fmt.Fprintln(cmd.OutOrStdout(), balancesTable(accounts, drifts))

			if len(drifts) > 0 {
				return fmt.Errorf("%d account(s) drifted; run ledgerctl recompute", len(drifts))
			}

			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("all balances match the ledger"))

			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "compare cached balances with the ledger")

	return cmd
}

func varianceCmd() *cobra.Command {
	var (
		year, month int
		category    string
	)

	cmd := &cobra.Command{
		Use:   "variance",
		Short: "Compare planned budgets with realized amounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			var variances []budget.Variance

			if category != "" {
				id, err := uuid.Parse(category)
				if err != nil {
					return fmt.Errorf("--category must be a UUID: %w", err)
				}

				v, err := svc.budgets.Variance(cmd.Context(), year, month, id)
				if err != nil {
					return err
				}

				variances = append(variances, *v)
			} else {
				if variances, err = svc.budgets.Comparison(cmd.Context(), year, month); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), varianceTable(variances))

			return nil
		},
	}

	now := time.Now()
	cmd.Flags().IntVar(&year, "year", now.Year(), "budget year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "budget month (1-12)")
	cmd.Flags().StringVar(&category, "category", "", "only this category ID")

	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		subject, name string
		ttl           time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.RequireAuth(); err != nil {
				return err
			}

			if subject == "" {
				return errors.New("--subject is required")
			}

			token, err := auth.New(cfg.Auth.Secret, cfg.Auth.Issuer).Issue(subject, name, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)

			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "user recorded as created_by")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
