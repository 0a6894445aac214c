// Package matching keeps the description rules that turn raw bank statement
// text into a clean description and, optionally, a category.
package matching

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
)

// Rule rewrites any raw description containing Pattern, case-insensitively.
type Rule struct {
	ID          uuid.UUID
	Pattern     string
	Description string
	CategoryID  *uuid.UUID
	CreatedAt   time.Time
}

type Repository interface {
	// FindMatch returns the rule with the longest pattern contained in
	// rawDescription, or nil when none matches.
	FindMatch(ctx context.Context, rawDescription string) (*Rule, error)
	Create(ctx context.Context, r *Rule) error
	List(ctx context.Context) ([]*Rule, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Match finds the rule for rawDescription. It returns nil when no rule applies.
func (s *Service) Match(ctx context.Context, rawDescription string) (*Rule, error) {
	if strings.TrimSpace(rawDescription) == "" {
		return nil, nil
	}

	return s.repo.FindMatch(ctx, rawDescription)
}

type Params struct {
	Pattern     string
	Description string
	CategoryID  *uuid.UUID
}

// Create remembers a new rule. Patterns are unique; a second rule with the
// same pattern fails with apperr.ErrDuplicate.
func (s *Service) Create(ctx context.Context, params Params) (*Rule, error) {
	r := &Rule{
		Pattern:     strings.TrimSpace(params.Pattern),
		Description: strings.TrimSpace(params.Description),
		CategoryID:  params.CategoryID,
	}

	switch {
	case r.Pattern == "":
		return nil, apperr.Invalid("pattern", "required")
	case r.Description == "":
		return nil, apperr.Invalid("description", "required")
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) List(ctx context.Context) ([]*Rule, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Applied is the outcome of running the rules over one raw description.
type Applied struct {
	Description string
	CategoryID  *uuid.UUID
	Matched     bool
}

// Apply returns the rewritten description for raw. Without a matching rule
// the raw text is kept as is.
func (s *Service) Apply(ctx context.Context, raw string) (Applied, error) {
	rule, err := s.Match(ctx, raw)
	if err != nil {
		return Applied{}, err
	}

	if rule == nil {
		return Applied{Description: strings.TrimSpace(raw)}, nil
	}

	return Applied{Description: rule.Description, CategoryID: rule.CategoryID, Matched: true}, nil
}
