package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/brazaforte/internal/database"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
)

const selectTransactionColumns = `
	id, kind, description, raw_description, amount, date, due_date, paid_date, status,
	category_id, account_id, destination_account_id, client_id, notes, created_by,
	created_at, updated_at
`

// scanTransaction expects the columns of selectTransactionColumns, in order.
func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var tx ledger.Transaction

	var kind, status string

	if err := s.Scan(
		&tx.ID, &kind, &tx.Description, &tx.RawDescription, &tx.Amount, &tx.Date, &tx.DueDate, &tx.PaidDate, &status,
		&tx.CategoryID, &tx.AccountID, &tx.DestinationAccountID, &tx.ClientID, &tx.Notes, &tx.CreatedBy,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Kind = ledger.Kind(kind)
	tx.Status = ledger.Status(status)

	return &tx, nil
}

func queryTransactions(ctx context.Context, q querier, query string, args ...any) ([]*ledger.Transaction, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func getTransaction(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	tx, err := scanTransaction(q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("getting transaction %s: %w", id, database.Classify(err))
	}

	return tx, nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	return getTransaction(ctx, s.db, id, false)
}

func (s *Store) ListTransactions(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND (account_id = $%d OR destination_account_id = $%d)", argIdx, argIdx)

		args = append(args, *filter.AccountID)
		argIdx++
	}

	if filter.Kind != nil {
		query += fmt.Sprintf(" AND kind = $%d", argIdx)

		args = append(args, *filter.Kind)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND category_id = $%d", argIdx)

		args = append(args, *filter.CategoryID)
		argIdx++
	}

	if filter.ClientID != nil {
		query += fmt.Sprintf(" AND client_id = $%d", argIdx)

		args = append(args, *filter.ClientID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date < $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND description ILIKE '%%' || $%d || '%%'", argIdx)

		args = append(args, filter.Search)
	}

	query += " ORDER BY date ASC, created_at ASC"

	txs, err := queryTransactions(ctx, s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return txs, nil
}

func insertTransaction(ctx context.Context, q querier, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (
			kind, description, raw_description, amount, date, due_date, paid_date, status,
			category_id, account_id, destination_account_id, client_id, notes, created_by,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRowContext(ctx, query,
		tx.Kind,
		tx.Description,
		tx.RawDescription,
		tx.Amount,
		tx.Date,
		tx.DueDate,
		tx.PaidDate,
		tx.Status,
		tx.CategoryID,
		tx.AccountID,
		tx.DestinationAccountID,
		tx.ClientID,
		tx.Notes,
		tx.CreatedBy,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", database.Classify(err))
	}

	return nil
}

func replaceTransaction(ctx context.Context, q querier, tx *ledger.Transaction) error {
	query := `
		UPDATE transactions
		SET kind = $1, description = $2, amount = $3, date = $4, due_date = $5, paid_date = $6,
			status = $7, category_id = $8, account_id = $9, destination_account_id = $10,
			client_id = $11, notes = $12, updated_at = NOW()
		WHERE id = $13
		RETURNING updated_at
	`

	err := q.QueryRowContext(ctx, query,
		tx.Kind,
		tx.Description,
		tx.Amount,
		tx.Date,
		tx.DueDate,
		tx.PaidDate,
		tx.Status,
		tx.CategoryID,
		tx.AccountID,
		tx.DestinationAccountID,
		tx.ClientID,
		tx.Notes,
		tx.ID,
	).Scan(&tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating transaction %s: %w", tx.ID, database.Classify(err))
	}

	return nil
}

func deleteTransaction(ctx context.Context, q querier, id uuid.UUID) error {
	res, err := q.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction %s: %w", id, database.Classify(err))
	}

	return mustAffect(res, "deleting transaction")
}

func listConfirmed(ctx context.Context, q querier) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE status = $1`

	txs, err := queryTransactions(ctx, q, query, ledger.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("listing confirmed transactions: %w", err)
	}

	return txs, nil
}

func findImported(ctx context.Context, q querier, accountID uuid.UUID, from, to time.Time) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE account_id = $1 AND raw_description <> '' AND date >= $2 AND date <= $3
		ORDER BY date ASC`

	txs, err := queryTransactions(ctx, q, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("finding imported transactions: %w", err)
	}

	return txs, nil
}
