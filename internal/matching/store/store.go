package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/brazaforte/internal/database"
	"github.com/MrJamesThe3rd/brazaforte/internal/matching"
)

var _ matching.Repository = (*Store)(nil)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectRuleColumns = `id, pattern, description, category_id, created_at`

func scanRule(s scanner) (*matching.Rule, error) {
	var r matching.Rule

	if err := s.Scan(&r.ID, &r.Pattern, &r.Description, &r.CategoryID, &r.CreatedAt); err != nil {
		return nil, err
	}

	return &r, nil
}

func (s *Store) FindMatch(ctx context.Context, rawDescription string) (*matching.Rule, error) {
	query := `
		SELECT ` + selectRuleColumns + `
		FROM description_rules
		WHERE $1 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	r, err := scanRule(s.db.QueryRowContext(ctx, query, rawDescription))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding match: %w", err)
	}

	return r, nil
}

func (s *Store) Create(ctx context.Context, r *matching.Rule) error {
	query := `
		INSERT INTO description_rules (pattern, description, category_id, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, r.Pattern, r.Description, r.CategoryID).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating rule: %w", database.Classify(err))
	}

	return nil
}

func (s *Store) List(ctx context.Context) ([]*matching.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectRuleColumns+` FROM description_rules ORDER BY pattern`)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []*matching.Rule

	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		rules = append(rules, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}

	return rules, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM description_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting rule %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting rule %s: %w", id, err)
	}

	if n == 0 {
		return fmt.Errorf("deleting rule %s: %w", id, database.Classify(sql.ErrNoRows))
	}

	return nil
}
