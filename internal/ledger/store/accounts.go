package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/database"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
)

const selectAccountColumns = `
	id, name, bank, branch, number, opening_balance, balance, opened_on, active, created_at, updated_at
`

func scanAccount(s scanner) (*ledger.Account, error) {
	var a ledger.Account

	if err := s.Scan(
		&a.ID, &a.Name, &a.Bank, &a.Branch, &a.Number, &a.OpeningBalance, &a.Balance,
		&a.OpenedOn, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &a, nil
}

func queryAccounts(ctx context.Context, q querier, query string, args ...any) ([]*ledger.Account, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", database.Classify(err))
	}
	defer rows.Close()

	var accounts []*ledger.Account

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}

	return accounts, nil
}

func getAccount(ctx context.Context, q querier, id uuid.UUID) (*ledger.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("getting account %s: %w", id, database.Classify(err))
	}

	return a, nil
}

func (s *Store) CreateAccount(ctx context.Context, a *ledger.Account) error {
	query := `
		INSERT INTO accounts (name, bank, branch, number, opening_balance, balance, opened_on, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		a.Name,
		a.Bank,
		a.Branch,
		a.Number,
		a.OpeningBalance,
		a.Balance,
		a.OpenedOn,
		a.Active,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating account: %w", database.Classify(err))
	}

	return nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	return getAccount(ctx, s.db, id)
}

func (s *Store) ListAccounts(ctx context.Context, filter ledger.AccountFilter) ([]*ledger.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Active != nil {
		query += fmt.Sprintf(" AND active = $%d", argIdx)

		args = append(args, *filter.Active)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE '%%' || $%d || '%%' OR bank ILIKE '%%' || $%d || '%%')", argIdx, argIdx)

		args = append(args, filter.Search)
	}

	query += " ORDER BY name ASC"

	return queryAccounts(ctx, s.db, query, args...)
}

// DeleteAccount fails with apperr.ErrReferenced while transactions point at the account.
func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting account %s: %w", id, database.Classify(err))
	}

	return mustAffect(res, "deleting account")
}

func updateAccount(ctx context.Context, q querier, a *ledger.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, bank = $2, branch = $3, number = $4, opening_balance = $5, opened_on = $6,
			active = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`

	err := q.QueryRowContext(ctx, query,
		a.Name,
		a.Bank,
		a.Branch,
		a.Number,
		a.OpeningBalance,
		a.OpenedOn,
		a.Active,
		a.ID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating account %s: %w", a.ID, database.Classify(err))
	}

	return nil
}

// lockAccounts locks one row at a time so the lock order is exactly the order of ids.
func lockAccounts(ctx context.Context, q querier, ids []uuid.UUID) error {
	for _, id := range ids {
		var locked uuid.UUID

		err := q.QueryRowContext(ctx, `SELECT id FROM accounts WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			return fmt.Errorf("locking account %s: %w", id, database.Classify(err))
		}
	}

	return nil
}

// lockAllAccounts blocks every other balance writer, but not plain readers,
// until the surrounding transaction ends.
func lockAllAccounts(ctx context.Context, q querier) error {
	if _, err := q.ExecContext(ctx, `LOCK TABLE accounts IN EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("locking accounts table: %w", database.Classify(err))
	}

	return nil
}

func adjustBalance(ctx context.Context, q querier, id uuid.UUID, delta decimal.Decimal) error {
	res, err := q.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + $1, updated_at = NOW() WHERE id = $2`,
		delta, id,
	)
	if err != nil {
		return fmt.Errorf("adjusting balance of %s: %w", id, database.Classify(err))
	}

	return mustAffect(res, "adjusting balance")
}

func setBalance(ctx context.Context, q querier, id uuid.UUID, balance decimal.Decimal) error {
	res, err := q.ExecContext(ctx,
		`UPDATE accounts SET balance = $1, updated_at = NOW() WHERE id = $2`,
		balance, id,
	)
	if err != nil {
		return fmt.Errorf("setting balance of %s: %w", id, database.Classify(err))
	}

	return mustAffect(res, "setting balance")
}
