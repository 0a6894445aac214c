package ledger

import (
	"context"
	"fmt"
)

// recompute rewrites every account balance from the confirmed transactions
// visible to uow. The caller must already hold LockAllAccounts.
// It returns the number of accounts whose cached balance changed.
func (s *Service) recompute(ctx context.Context, uow UnitOfWork) (int, error) {
	accounts, err := uow.ListAccounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing accounts: %w", err)
	}

	txs, err := uow.ListConfirmed(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing confirmed transactions: %w", err)
	}

	balances := ComputeBalances(accounts, txs)

	changed := 0

	for _, a := range accounts {
		want := balances[a.ID]
		if a.Balance.Equal(want) {
			continue
		}

		if err := uow.SetBalance(ctx, a.ID, want); err != nil {
			return 0, fmt.Errorf("setting balance of %s: %w", a.ID, err)
		}

		changed++
	}

	return changed, nil
}

// RecomputeAllBalances rebuilds every account balance from the ledger in a
// single unit of work. It is the repair operation for the balance cache and
// is safe to run at any time: running it twice yields identical balances.
func (s *Service) RecomputeAllBalances(ctx context.Context) error {
	uow, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer uow.Rollback()

	if err := uow.LockAllAccounts(ctx); err != nil {
		return fmt.Errorf("locking accounts: %w", err)
	}

	changed, err := s.recompute(ctx, uow)
	if err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.InfoContext(ctx, "recomputed account balances", "changed", changed)

	return nil
}

// CheckBalances compares every cached balance with the value derived from the
// ledger, without writing anything, and returns the accounts that disagree.
func (s *Service) CheckBalances(ctx context.Context) ([]Drift, error) {
	uow, err := s.repo.BeginSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer uow.Rollback()

	accounts, err := uow.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	txs, err := uow.ListConfirmed(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing confirmed transactions: %w", err)
	}

	balances := ComputeBalances(accounts, txs)

	var drifts []Drift

	for _, a := range accounts {
		if a.Balance.Equal(balances[a.ID]) {
			continue
		}

		drifts = append(drifts, Drift{Account: a, Expected: balances[a.ID]})
		s.logger.WarnContext(ctx, "account balance drift",
			"account_id", a.ID,
			"cached", a.Balance.StringFixed(2),
			"expected", balances[a.ID].StringFixed(2),
		)
	}

	return drifts, nil
}
