package ledger_test

import (
	"context"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
)

// memState is an in-memory ledger. Units of work operate on a copy and swap
// it in on commit.
type memState struct {
	accounts     map[uuid.UUID]ledger.Account
	categories   map[uuid.UUID]ledger.Category
	transactions map[uuid.UUID]ledger.Transaction
}

func (s memState) clone() memState {
	return memState{
		accounts:     maps.Clone(s.accounts),
		categories:   maps.Clone(s.categories),
		transactions: maps.Clone(s.transactions),
	}
}

type memRepo struct {
	state memState
}

func newMemRepo() *memRepo {
	return &memRepo{state: memState{
		accounts:     map[uuid.UUID]ledger.Account{},
		categories:   map[uuid.UUID]ledger.Category{},
		transactions: map[uuid.UUID]ledger.Transaction{},
	}}
}

func (r *memRepo) GetTransaction(_ context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	t, ok := r.state.transactions[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	return &t, nil
}

func (r *memRepo) ListTransactions(_ context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction

	for _, t := range r.state.transactions {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}

		if filter.StartDate != nil && t.Date.Before(*filter.StartDate) {
			continue
		}

		if filter.EndDate != nil && !t.Date.Before(*filter.EndDate) {
			continue
		}

		out = append(out, &t)
	}

	return out, nil
}

func (r *memRepo) CreateAccount(_ context.Context, a *ledger.Account) error {
	a.ID = uuid.New()
	r.state.accounts[a.ID] = *a

	return nil
}

func (r *memRepo) GetAccount(_ context.Context, id uuid.UUID) (*ledger.Account, error) {
	a, ok := r.state.accounts[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	return &a, nil
}

func (r *memRepo) ListAccounts(_ context.Context, filter ledger.AccountFilter) ([]*ledger.Account, error) {
	var out []*ledger.Account

	for _, a := range r.state.accounts {
		if filter.Active != nil && a.Active != *filter.Active {
			continue
		}

		out = append(out, &a)
	}

	return out, nil
}

func (r *memRepo) DeleteAccount(_ context.Context, id uuid.UUID) error {
	for _, t := range r.state.transactions {
		if t.AccountID == id || (t.DestinationAccountID != nil && *t.DestinationAccountID == id) {
			return apperr.ErrReferenced
		}
	}

	delete(r.state.accounts, id)

	return nil
}

func (r *memRepo) CreateCategory(_ context.Context, c *ledger.Category) error {
	for _, existing := range r.state.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return apperr.ErrDuplicate
		}
	}

	c.ID = uuid.New()
	r.state.categories[c.ID] = *c

	return nil
}

func (r *memRepo) GetCategory(_ context.Context, id uuid.UUID) (*ledger.Category, error) {
	c, ok := r.state.categories[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	return &c, nil
}

func (r *memRepo) ListCategories(_ context.Context, _ ledger.CategoryFilter) ([]*ledger.Category, error) {
	var out []*ledger.Category
	for _, c := range r.state.categories {
		out = append(out, &c)
	}

	return out, nil
}

func (r *memRepo) UpdateCategory(_ context.Context, c *ledger.Category) error {
	r.state.categories[c.ID] = *c
	return nil
}

func (r *memRepo) DeleteCategory(_ context.Context, id uuid.UUID) error {
	delete(r.state.categories, id)
	return nil
}

func (r *memRepo) Begin(_ context.Context) (ledger.UnitOfWork, error) {
	return &memUnit{repo: r, state: r.state.clone()}, nil
}

func (r *memRepo) BeginSnapshot(ctx context.Context) (ledger.UnitOfWork, error) {
	return r.Begin(ctx)
}

// corrupt overwrites a cached balance behind the service's back.
func (r *memRepo) corrupt(id uuid.UUID, balance decimal.Decimal) {
	a := r.state.accounts[id]
	a.Balance = balance
	r.state.accounts[id] = a
}

func (r *memRepo) balance(id uuid.UUID) decimal.Decimal {
	return r.state.accounts[id].Balance
}

type memUnit struct {
	repo  *memRepo
	state memState
	done  bool
}

func (u *memUnit) GetTransactionForUpdate(_ context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	t, ok := u.state.transactions[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	return &t, nil
}

func (u *memUnit) InsertTransaction(_ context.Context, tx *ledger.Transaction) error {
	tx.ID = uuid.New()
	u.state.transactions[tx.ID] = *tx

	return nil
}

func (u *memUnit) ReplaceTransaction(_ context.Context, tx *ledger.Transaction) error {
	if _, ok := u.state.transactions[tx.ID]; !ok {
		return apperr.ErrNotFound
	}

	u.state.transactions[tx.ID] = *tx

	return nil
}

func (u *memUnit) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	delete(u.state.transactions, id)
	return nil
}

func (u *memUnit) ListConfirmed(_ context.Context) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction

	for _, t := range u.state.transactions {
		if t.Status == ledger.StatusConfirmed {
			out = append(out, &t)
		}
	}

	return out, nil
}

func (u *memUnit) GetAccount(_ context.Context, id uuid.UUID) (*ledger.Account, error) {
	a, ok := u.state.accounts[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	return &a, nil
}

func (u *memUnit) GetCategory(_ context.Context, id uuid.UUID) (*ledger.Category, error) {
	c, ok := u.state.categories[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	return &c, nil
}

func (u *memUnit) UpdateAccount(_ context.Context, a *ledger.Account) error {
	current := u.state.accounts[a.ID]
	updated := *a
	updated.Balance = current.Balance
	u.state.accounts[a.ID] = updated

	return nil
}

func (u *memUnit) ListAccounts(_ context.Context) ([]*ledger.Account, error) {
	var out []*ledger.Account
	for _, a := range u.state.accounts {
		out = append(out, &a)
	}

	return out, nil
}

func (u *memUnit) LockAccounts(_ context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if _, ok := u.state.accounts[id]; !ok {
			return apperr.ErrNotFound
		}
	}

	return nil
}

func (u *memUnit) LockAllAccounts(context.Context) error { return nil }

func (u *memUnit) AdjustBalance(_ context.Context, id uuid.UUID, delta decimal.Decimal) error {
	a, ok := u.state.accounts[id]
	if !ok {
		return apperr.ErrNotFound
	}

	a.Balance = a.Balance.Add(delta)
	u.state.accounts[id] = a

	return nil
}

func (u *memUnit) SetBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal) error {
	a, ok := u.state.accounts[id]
	if !ok {
		return apperr.ErrNotFound
	}

	a.Balance = balance
	u.state.accounts[id] = a

	return nil
}

func (u *memUnit) LockImports(context.Context, uuid.UUID) error { return nil }

func (u *memUnit) FindImported(_ context.Context, accountID uuid.UUID, from, to time.Time) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction

	for _, t := range u.state.transactions {
		if t.AccountID != accountID || t.RawDescription == "" {
			continue
		}

		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}

		out = append(out, &t)
	}

	return out, nil
}

func (u *memUnit) Commit() error {
	u.repo.state = u.state
	u.done = true

	return nil
}

func (u *memUnit) Rollback() error {
	u.done = true
	return nil
}
