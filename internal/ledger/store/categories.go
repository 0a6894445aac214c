package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/brazaforte/internal/database"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
)

func scanCategory(s scanner) (*ledger.Category, error) {
	var c ledger.Category

	var kind string

	if err := s.Scan(&c.ID, &c.Name, &kind, &c.Description); err != nil {
		return nil, err
	}

	c.Kind = ledger.CategoryKind(kind)

	return &c, nil
}

func getCategory(ctx context.Context, q querier, id uuid.UUID) (*ledger.Category, error) {
	c, err := scanCategory(q.QueryRowContext(ctx,
		`SELECT id, name, kind, description FROM categories WHERE id = $1`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("getting category %s: %w", id, database.Classify(err))
	}

	return c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *ledger.Category) error {
	query := `
		INSERT INTO categories (name, kind, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	if err := s.db.QueryRowContext(ctx, query, c.Name, c.Kind, c.Description).Scan(&c.ID); err != nil {
		return fmt.Errorf("creating category: %w", database.Classify(err))
	}

	return nil
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*ledger.Category, error) {
	return getCategory(ctx, s.db, id)
}

func (s *Store) ListCategories(ctx context.Context, filter ledger.CategoryFilter) ([]*ledger.Category, error) {
	query := `SELECT id, name, kind, description FROM categories WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Kind != nil {
		query += fmt.Sprintf(" AND kind = $%d", argIdx)

		args = append(args, *filter.Kind)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND name ILIKE '%%' || $%d || '%%'", argIdx)

		args = append(args, filter.Search)
	}

	query += " ORDER BY kind ASC, name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", database.Classify(err))
	}
	defer rows.Close()

	var categories []*ledger.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return categories, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *ledger.Category) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = $1, kind = $2, description = $3 WHERE id = $4`,
		c.Name, c.Kind, c.Description, c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating category %s: %w", c.ID, database.Classify(err))
	}

	return mustAffect(res, "updating category")
}

// DeleteCategory removes the category together with its budgets. Categories
// still used by transactions are rejected with apperr.ErrReferenced.
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting category %s: %w", id, database.Classify(err))
	}

	return mustAffect(res, "deleting category")
}
