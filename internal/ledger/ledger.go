package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind is the direction of a transaction.
type Kind string

const (
	KindIncome   Kind = "income"
	KindExpense  Kind = "expense"
	KindTransfer Kind = "transfer"
)

func (k Kind) Valid() bool {
	switch k {
	case KindIncome, KindExpense, KindTransfer:
		return true
	}

	return false
}

// Status represents the lifecycle state of a transaction.
// Only confirmed transactions move money.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}

	return false
}

// Transaction is one entry of the ledger. It is the source of truth from which
// account balances are derived.
type Transaction struct {
	ID                   uuid.UUID
	Kind                 Kind
	Description          string
	RawDescription       string // bank text of imported rows
	Amount               decimal.Decimal
	Date                 time.Time
	DueDate              *time.Time
	PaidDate             *time.Time
	Status               Status
	CategoryID           *uuid.UUID
	AccountID            uuid.UUID
	DestinationAccountID *uuid.UUID // transfers only
	ClientID             *uuid.UUID
	Notes                string
	CreatedBy            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Account is a bank account. Balance is a cache maintained by the Service and
// always equals OpeningBalance plus the contribution of every confirmed transaction.
type Account struct {
	ID             uuid.UUID
	Name           string
	Bank           string
	Branch         string
	Number         string
	OpeningBalance decimal.Decimal
	Balance        decimal.Decimal
	OpenedOn       time.Time
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CategoryKind groups categories into revenue and expense.
type CategoryKind string

const (
	CategoryRevenue CategoryKind = "revenue"
	CategoryExpense CategoryKind = "expense"
)

func (k CategoryKind) Valid() bool {
	return k == CategoryRevenue || k == CategoryExpense
}

// Category labels transactions and budgets.
type Category struct {
	ID          uuid.UUID
	Name        string
	Kind        CategoryKind
	Description string
}
