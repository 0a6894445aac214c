package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
)

type AccountParams struct {
	Name           string
	Bank           string
	Branch         string
	Number         string
	OpeningBalance decimal.Decimal
	OpenedOn       time.Time
	Active         bool
}

func (p AccountParams) validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return apperr.Invalid("name", "required")
	case strings.TrimSpace(p.Bank) == "":
		return apperr.Invalid("bank", "required")
	case p.OpenedOn.IsZero():
		return apperr.Invalid("opened_on", "required")
	case !wholeCents(p.OpeningBalance):
		return apperr.Invalid("opening_balance", "at most 2 decimal places")
	}

	return nil
}

// CreateAccount opens an account. Its balance starts at the opening balance
// since no transaction can reference it yet.
func (s *Service) CreateAccount(ctx context.Context, params AccountParams) (*Account, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	a := &Account{
		Name:           strings.TrimSpace(params.Name),
		Bank:           strings.TrimSpace(params.Bank),
		Branch:         strings.TrimSpace(params.Branch),
		Number:         strings.TrimSpace(params.Number),
		OpeningBalance: params.OpeningBalance,
		Balance:        params.OpeningBalance,
		OpenedOn:       params.OpenedOn,
		Active:         params.Active,
	}

	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

func (s *Service) ListAccounts(ctx context.Context, filter AccountFilter) ([]*Account, error) {
	return s.repo.ListAccounts(ctx, filter)
}

// UpdateAccount edits the descriptive fields of an account. Changing the
// opening balance shifts the cached balance by exactly the same amount.
func (s *Service) UpdateAccount(ctx context.Context, id uuid.UUID, params AccountParams) (*Account, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	uow, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer uow.Rollback()

	if err := uow.LockAccounts(ctx, []uuid.UUID{id}); err != nil {
		return nil, fmt.Errorf("locking account: %w", err)
	}

	a, err := uow.GetAccount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}

	shift := params.OpeningBalance.Sub(a.OpeningBalance)

	a.Name = strings.TrimSpace(params.Name)
	a.Bank = strings.TrimSpace(params.Bank)
	a.Branch = strings.TrimSpace(params.Branch)
	a.Number = strings.TrimSpace(params.Number)
	a.OpeningBalance = params.OpeningBalance
	a.OpenedOn = params.OpenedOn
	a.Active = params.Active

	if err := uow.UpdateAccount(ctx, a); err != nil {
		return nil, fmt.Errorf("updating account: %w", err)
	}

	if !shift.IsZero() {
		if err := uow.AdjustBalance(ctx, id, shift); err != nil {
			return nil, fmt.Errorf("adjusting balance: %w", err)
		}

		a.Balance = a.Balance.Add(shift)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return a, nil
}

// DeleteAccount removes an account that no transaction references.
// Referenced accounts must be deactivated instead; the store reports
// apperr.ErrReferenced for them.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAccount(ctx, id)
}

// TotalBalance sums the balances of all active accounts.
func (s *Service) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	active := true

	accounts, err := s.repo.ListAccounts(ctx, AccountFilter{Active: &active})
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing accounts: %w", err)
	}

	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}

	return total, nil
}
