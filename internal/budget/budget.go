package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
)

// Budget is the amount planned for one category in one calendar month.
// The realized amount is always derived from the ledger, never stored.
type Budget struct {
	ID           uuid.UUID
	Year         int
	Month        int
	CategoryID   uuid.UUID
	CategoryName string // read-only, filled by the store
	Planned      decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Variance compares a budget with what actually happened.
type Variance struct {
	Budget     *Budget
	Planned    decimal.Decimal
	Realized   decimal.Decimal
	Difference decimal.Decimal // realized - planned
}

// PlannedTotal is the sum of the budgets of one kind in one month.
type PlannedTotal struct {
	Year   int
	Month  int
	Kind   ledger.CategoryKind
	Amount decimal.Decimal
}

type ListFilter struct {
	Year       *int
	Month      *int
	CategoryID *uuid.UUID
}
