package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/brazaforte/internal/client"
	"github.com/MrJamesThe3rd/brazaforte/internal/database"
)

var _ client.Repository = (*Store)(nil)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectClientColumns = `id, kind, name, document, email, phone, address, active, created_at`

func scanClient(s scanner) (*client.Client, error) {
	var (
		c    client.Client
		kind string
	)

	if err := s.Scan(&c.ID, &kind, &c.Name, &c.Document, &c.Email, &c.Phone, &c.Address, &c.Active, &c.CreatedAt); err != nil {
		return nil, err
	}

	c.Kind = client.Kind(kind)

	return &c, nil
}

func (s *Store) Create(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO clients (kind, name, document, email, phone, address, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		string(c.Kind), c.Name, c.Document, c.Email, c.Phone, c.Address, c.Active,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating client: %w", database.Classify(err))
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	c, err := scanClient(s.db.QueryRowContext(ctx, `SELECT `+selectClientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("getting client %s: %w", id, database.Classify(err))
	}

	return c, nil
}

func (s *Store) List(ctx context.Context, filter client.ListFilter) ([]*client.Client, error) {
	query := `SELECT ` + selectClientColumns + ` FROM clients WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Kind != nil {
		query += fmt.Sprintf(" AND kind = $%d", argIdx)

		args = append(args, string(*filter.Kind))
		argIdx++
	}

	if filter.Active != nil {
		query += fmt.Sprintf(" AND active = $%d", argIdx)

		args = append(args, *filter.Active)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR document ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx, argIdx)

		args = append(args, "%"+filter.Search+"%")
	}

	query += " ORDER BY name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", database.Classify(err))
	}
	defer rows.Close()

	var clients []*client.Client

	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}

		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clients: %w", err)
	}

	return clients, nil
}

func (s *Store) Update(ctx context.Context, c *client.Client) error {
	query := `
		UPDATE clients
		SET kind = $1, name = $2, document = $3, email = $4, phone = $5, address = $6, active = $7
		WHERE id = $8
	`

	res, err := s.db.ExecContext(ctx, query,
		string(c.Kind), c.Name, c.Document, c.Email, c.Phone, c.Address, c.Active, c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating client %s: %w", c.ID, database.Classify(err))
	}

	return affected(res, "updating client", c.ID)
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting client %s: %w", id, database.Classify(err))
	}

	return affected(res, "deleting client", id)
}

func affected(res sql.Result, op string, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}

	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, database.Classify(sql.ErrNoRows))
	}

	return nil
}
