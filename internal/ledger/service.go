package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)

	CreateAccount(ctx context.Context, a *Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	ListAccounts(ctx context.Context, filter AccountFilter) ([]*Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context, filter CategoryFilter) ([]*Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// Begin opens a read-committed unit of work for balance-affecting writes.
	Begin(ctx context.Context) (UnitOfWork, error)
	// BeginSnapshot opens a read-only repeatable-read unit used for consistency checks.
	BeginSnapshot(ctx context.Context) (UnitOfWork, error)
}

// UnitOfWork is a single database transaction. Every write to the ledger and
// the balance reconciliation it triggers happen inside one UnitOfWork, so
// readers never see a transaction without its effect on the balances.
type UnitOfWork interface {
	GetTransactionForUpdate(ctx context.Context, id uuid.UUID) (*Transaction, error)
	InsertTransaction(ctx context.Context, tx *Transaction) error
	ReplaceTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	ListConfirmed(ctx context.Context) ([]*Transaction, error)

	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	UpdateAccount(ctx context.Context, a *Account) error
	ListAccounts(ctx context.Context) ([]*Account, error)

	// LockAccounts takes row locks on the given accounts, in the given order.
	LockAccounts(ctx context.Context, ids []uuid.UUID) error
	// LockAllAccounts takes an exclusive lock on the whole accounts table.
	LockAllAccounts(ctx context.Context) error
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
	SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error

	// LockImports serializes statement imports into one account until the unit ends.
	LockImports(ctx context.Context, accountID uuid.UUID) error
	// FindImported lists imported rows of the account dated within [from, to].
	FindImported(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*Transaction, error)

	Commit() error
	Rollback() error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ListFilter narrows ListTransactions. Nil fields are ignored.
type ListFilter struct {
	AccountID  *uuid.UUID // matches source or destination
	Kind       *Kind
	Status     *Status
	CategoryID *uuid.UUID
	ClientID   *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time // exclusive
	Search     string
}

type AccountFilter struct {
	Active *bool
	Search string
}

type CategoryFilter struct {
	Kind   *CategoryKind
	Search string
}
