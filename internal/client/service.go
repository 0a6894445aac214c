// Package client manages the customers and suppliers transactions refer to.
package client

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=client

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
)

type Repository interface {
	Create(ctx context.Context, c *Client) error
	Get(ctx context.Context, id uuid.UUID) (*Client, error)
	List(ctx context.Context, filter ListFilter) ([]*Client, error)
	Update(ctx context.Context, c *Client) error
	// Delete fails with apperr.ErrReferenced while a transaction points at the client.
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

type Params struct {
	Kind     Kind
	Name     string
	Document string
	Email    string
	Phone    string
	Address  string
	Active   bool
}

// normalize validates params and returns them with the document reduced to digits.
func (s *Service) normalize(p Params) (Params, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Document = Digits(p.Document)

	if !p.Kind.Valid() {
		return p, apperr.Invalid("kind", fmt.Sprintf("unknown client kind %q", p.Kind))
	}

	if p.Name == "" {
		return p, apperr.Invalid("name", "required")
	}

	switch p.Kind {
	case KindIndividual:
		if !ValidCPF(p.Document) {
			return p, apperr.Invalid("document", "invalid CPF")
		}
	case KindCompany:
		if !ValidCNPJ(p.Document) {
			return p, apperr.Invalid("document", "invalid CNPJ")
		}
	}

	if err := s.validate.Var(p.Email, "required,email"); err != nil {
		return p, apperr.Invalid("email", "must be a valid e-mail address")
	}

	return p, nil
}

func (p Params) apply(c *Client) {
	c.Kind = p.Kind
	c.Name = p.Name
	c.Document = p.Document
	c.Email = p.Email
	c.Phone = strings.TrimSpace(p.Phone)
	c.Address = strings.TrimSpace(p.Address)
	c.Active = p.Active
}

// Create registers a client. Document and e-mail are unique; reusing either
// fails with apperr.ErrDuplicate.
func (s *Service) Create(ctx context.Context, params Params) (*Client, error) {
	params, err := s.normalize(params)
	if err != nil {
		return nil, err
	}

	c := &Client{}
	params.apply(c)

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Client, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params Params) (*Client, error) {
	params, err := s.normalize(params)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	params.apply(c)

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
