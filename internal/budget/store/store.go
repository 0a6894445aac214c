// Package store persists budgets in Postgres and aggregates realized amounts
// from the transactions table.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/budget"
	"github.com/MrJamesThe3rd/brazaforte/internal/database"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
	"github.com/MrJamesThe3rd/brazaforte/internal/period"
)

var _ budget.Repository = (*Store)(nil)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectBudgetColumns = `
	b.id, b.year, b.month, b.category_id, c.name, b.planned, b.created_at, b.updated_at
`

const fromBudgets = ` FROM budgets b JOIN categories c ON c.id = b.category_id`

func scanBudget(s scanner) (*budget.Budget, error) {
	var b budget.Budget

	if err := s.Scan(
		&b.ID, &b.Year, &b.Month, &b.CategoryID, &b.CategoryName, &b.Planned, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &b, nil
}

func (s *Store) Create(ctx context.Context, b *budget.Budget) error {
	query := `
		INSERT INTO budgets (year, month, category_id, planned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, b.Year, b.Month, b.CategoryID, b.Planned).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating budget: %w", database.Classify(err))
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	b, err := scanBudget(s.db.QueryRowContext(ctx, `SELECT `+selectBudgetColumns+fromBudgets+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("getting budget %s: %w", id, database.Classify(err))
	}

	return b, nil
}

func (s *Store) FindByPeriod(ctx context.Context, year, month int, categoryID uuid.UUID) (*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + fromBudgets + `
		WHERE b.year = $1 AND b.month = $2 AND b.category_id = $3`

	b, err := scanBudget(s.db.QueryRowContext(ctx, query, year, month, categoryID))
	if err != nil {
		return nil, database.Classify(err)
	}

	return b, nil
}

func (s *Store) List(ctx context.Context, filter budget.ListFilter) ([]*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + fromBudgets + ` WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Year != nil {
		query += fmt.Sprintf(" AND b.year = $%d", argIdx)

		args = append(args, *filter.Year)
		argIdx++
	}

	if filter.Month != nil {
		query += fmt.Sprintf(" AND b.month = $%d", argIdx)

		args = append(args, *filter.Month)
		argIdx++
	}

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND b.category_id = $%d", argIdx)

		args = append(args, *filter.CategoryID)
	}

	query += " ORDER BY b.year DESC, b.month DESC, c.name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", database.Classify(err))
	}
	defer rows.Close()

	var budgets []*budget.Budget

	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}

		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budgets: %w", err)
	}

	return budgets, nil
}

func (s *Store) Update(ctx context.Context, b *budget.Budget) error {
	query := `
		UPDATE budgets
		SET year = $1, month = $2, category_id = $3, planned = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query, b.Year, b.Month, b.CategoryID, b.Planned, b.ID).Scan(&b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating budget %s: %w", b.ID, database.Classify(err))
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting budget %s: %w", id, database.Classify(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting budget %s: %w", id, err)
	}

	if n == 0 {
		return fmt.Errorf("deleting budget %s: %w", id, database.Classify(sql.ErrNoRows))
	}

	return nil
}

// realizedQuery sums the confirmed transactions of every kind dated in
// [r.Start, r.End). With a category it returns a single total, without one
// it returns a total per categorized row group.
func realizedQuery(r period.Range, categoryID *uuid.UUID) (string, []any) {
	where := ` FROM transactions WHERE status = $1 AND date >= $2 AND date < $3`
	args := []any{string(ledger.StatusConfirmed), r.Start, r.End}

	if categoryID != nil {
		return `SELECT COALESCE(SUM(amount), 0)` + where + ` AND category_id = $4`, append(args, *categoryID)
	}

	return `SELECT category_id, SUM(amount)` + where + ` AND category_id IS NOT NULL GROUP BY category_id`, args
}

func (s *Store) Realized(ctx context.Context, categoryID uuid.UUID, r period.Range) (decimal.Decimal, error) {
	query, args := realizedQuery(r, &categoryID)

	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing realized amount: %w", database.Classify(err))
	}

	return total, nil
}

func (s *Store) RealizedByCategory(ctx context.Context, r period.Range) (map[uuid.UUID]decimal.Decimal, error) {
	query, args := realizedQuery(r, nil)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summing realized amounts: %w", database.Classify(err))
	}
	defer rows.Close()

	out := make(map[uuid.UUID]decimal.Decimal)

	for rows.Next() {
		var (
			id    uuid.UUID
			total decimal.Decimal
		)

		if err := rows.Scan(&id, &total); err != nil {
			return nil, fmt.Errorf("scanning realized amount: %w", err)
		}

		out[id] = total
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating realized amounts: %w", err)
	}

	return out, nil
}

func (s *Store) PlannedTotals(ctx context.Context, r period.Range) ([]budget.PlannedTotal, error) {
	query := `
		SELECT b.year, b.month, c.kind, SUM(b.planned)
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE make_date(b.year, b.month, 1) >= $1 AND make_date(b.year, b.month, 1) < $2
		GROUP BY b.year, b.month, c.kind
		ORDER BY b.year, b.month, c.kind
	`

	rows, err := s.db.QueryContext(ctx, query, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("summing planned budgets: %w", database.Classify(err))
	}
	defer rows.Close()

	var totals []budget.PlannedTotal

	for rows.Next() {
		var (
			t    budget.PlannedTotal
			kind string
		)

		if err := rows.Scan(&t.Year, &t.Month, &kind, &t.Amount); err != nil {
			return nil, fmt.Errorf("scanning planned total: %w", err)
		}

		t.Kind = ledger.CategoryKind(kind)
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating planned totals: %w", err)
	}

	return totals, nil
}
