package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/finance"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
	"github.com/MrJamesThe3rd/brazaforte/internal/period"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	Create(ctx context.Context, b *Budget) error
	Get(ctx context.Context, id uuid.UUID) (*Budget, error)
	List(ctx context.Context, filter ListFilter) ([]*Budget, error)
	Update(ctx context.Context, b *Budget) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByPeriod(ctx context.Context, year, month int, categoryID uuid.UUID) (*Budget, error)

	// Realized sums the confirmed income and expense of a category dated within r.
	Realized(ctx context.Context, categoryID uuid.UUID, r period.Range) (decimal.Decimal, error)
	// RealizedByCategory is Realized for every category with activity in r.
	RealizedByCategory(ctx context.Context, r period.Range) (map[uuid.UUID]decimal.Decimal, error)
	// PlannedTotals sums budgets per month and category kind for the months within r.
	PlannedTotals(ctx context.Context, r period.Range) ([]PlannedTotal, error)
}

// BalanceReader reports the money currently available across active accounts.
type BalanceReader interface {
	TotalBalance(ctx context.Context) (decimal.Decimal, error)
}

type Service struct {
	repo     Repository
	balances BalanceReader
	now      func() time.Time
}

func NewService(repo Repository, balances BalanceReader) *Service {
	return &Service{repo: repo, balances: balances, now: time.Now}
}

// WithClock replaces the clock used by Projection.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type Params struct {
	Year       int
	Month      int
	CategoryID uuid.UUID
	Planned    decimal.Decimal
}

func (p Params) validate() error {
	switch {
	case p.Year < 1:
		return apperr.Invalid("year", "must be positive")
	case p.Month < 1 || p.Month > 12:
		return apperr.Invalid("month", "must be between 1 and 12")
	case p.CategoryID == uuid.Nil:
		return apperr.Invalid("category_id", "required")
	case p.Planned.IsNegative():
		return apperr.Invalid("planned", "must not be negative")
	}

	return nil
}

// Create plans a month for a category. A second budget for the same year,
// month and category fails with apperr.ErrDuplicate.
func (s *Service) Create(ctx context.Context, params Params) (*Budget, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	b := &Budget{
		Year:       params.Year,
		Month:      params.Month,
		CategoryID: params.CategoryID,
		Planned:    params.Planned,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Budget, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Budget, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params Params) (*Budget, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	b.Year = params.Year
	b.Month = params.Month
	b.CategoryID = params.CategoryID
	b.Planned = params.Planned

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Variance reports planned against realized for one category and month.
// Realized covers [first day of month, first day of next month).
func (s *Service) Variance(ctx context.Context, year, month int, categoryID uuid.UUID) (*Variance, error) {
	r, err := period.Month(year, month)
	if err != nil {
		return nil, apperr.Invalid("month", err.Error())
	}

	b, err := s.repo.FindByPeriod(ctx, year, month, categoryID)
	if err != nil {
		return nil, fmt.Errorf("finding budget for %04d-%02d: %w", year, month, err)
	}

	realized, err := s.repo.Realized(ctx, categoryID, r)
	if err != nil {
		return nil, fmt.Errorf("summing realized amount: %w", err)
	}

	return newVariance(b, realized), nil
}

// Comparison returns the variance of every budget planned for the month.
func (s *Service) Comparison(ctx context.Context, year, month int) ([]Variance, error) {
	r, err := period.Month(year, month)
	if err != nil {
		return nil, apperr.Invalid("month", err.Error())
	}

	budgets, err := s.repo.List(ctx, ListFilter{Year: &year, Month: &month})
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}

	realized, err := s.repo.RealizedByCategory(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("summing realized amounts: %w", err)
	}

	out := make([]Variance, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, *newVariance(b, realized[b.CategoryID]))
	}

	return out, nil
}

func newVariance(b *Budget, realized decimal.Decimal) *Variance {
	return &Variance{
		Budget:     b,
		Planned:    b.Planned,
		Realized:   realized,
		Difference: realized.Sub(b.Planned),
	}
}

// Projection walks the next months starting from the current month, adding
// planned revenue and subtracting planned expense to today's total balance.
func (s *Service) Projection(ctx context.Context, months int) ([]finance.ProjectedMonth, error) {
	if months < 1 || months > 120 {
		return nil, apperr.Invalid("months", "must be between 1 and 120")
	}

	start, err := s.balances.TotalBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading total balance: %w", err)
	}

	now := s.now()

	first, err := period.Month(now.Year(), int(now.Month()))
	if err != nil {
		return nil, err
	}

	span := period.Range{Start: first.Start, End: first.Start.AddDate(0, months, 0)}

	totals, err := s.repo.PlannedTotals(ctx, span)
	if err != nil {
		return nil, fmt.Errorf("summing planned budgets: %w", err)
	}

	var revenues, expenses []finance.Planned

	for _, t := range totals {
		p := finance.Planned{Year: t.Year, Month: t.Month, Amount: t.Amount}

		switch t.Kind {
		case ledger.CategoryRevenue:
			revenues = append(revenues, p)
		case ledger.CategoryExpense:
			expenses = append(expenses, p)
		default:
			return nil, fmt.Errorf("planned total with unknown category kind %q", t.Kind)
		}
	}

	return finance.Project(start, now, months, revenues, expenses), nil
}
