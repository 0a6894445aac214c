package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
)

type CategoryParams struct {
	Name        string
	Kind        CategoryKind
	Description string
}

func (p CategoryParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Invalid("name", "required")
	}

	if !p.Kind.Valid() {
		return apperr.Invalid("kind", fmt.Sprintf("unknown category kind %q", p.Kind))
	}

	return nil
}

func (s *Service) CreateCategory(ctx context.Context, params CategoryParams) (*Category, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	c := &Category{
		Name:        strings.TrimSpace(params.Name),
		Kind:        params.Kind,
		Description: params.Description,
	}

	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) GetCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context, filter CategoryFilter) ([]*Category, error) {
	return s.repo.ListCategories(ctx, filter)
}

func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, params CategoryParams) (*Category, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Name = strings.TrimSpace(params.Name)
	c.Kind = params.Kind
	c.Description = params.Description

	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// DeleteCategory removes a category and its budgets. It fails with
// apperr.ErrReferenced while any transaction uses the category.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, id)
}
