package ledger

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/finance"
	"github.com/MrJamesThe3rd/brazaforte/internal/period"
)

type CategoryTotal struct {
	CategoryID *uuid.UUID // nil for uncategorized transactions
	Name       string
	Kind       CategoryKind
	Total      decimal.Decimal
	Count      int
}

type PendingTotal struct {
	Total decimal.Decimal
	Count int
}

type Overdue struct {
	Transaction *Transaction
	DaysLate    int
	Charges     finance.LateCharges
}

// Summary is the confirmed activity of one month plus the open payables and
// receivables as of a given day.
type Summary struct {
	Period      period.Range
	Income      decimal.Decimal
	Expense     decimal.Decimal
	Net         decimal.Decimal
	Categories  []CategoryTotal
	Payables    PendingTotal // pending expenses due on or after AsOf
	Receivables PendingTotal // pending income due on or after AsOf
	Overdue     []Overdue    // pending expenses past their due date
	AsOf        time.Time
}

// MonthlySummary reports on year/month. Open items are evaluated against the
// service clock.
func (s *Service) MonthlySummary(ctx context.Context, year, month int) (*Summary, error) {
	r, err := period.Month(year, month)
	if err != nil {
		return nil, apperr.Invalid("month", err.Error())
	}

	confirmed := StatusConfirmed

	txs, err := s.repo.ListTransactions(ctx, ListFilter{
		Status:    &confirmed,
		StartDate: &r.Start,
		EndDate:   &r.End,
	})
	if err != nil {
		return nil, fmt.Errorf("listing confirmed transactions: %w", err)
	}

	categories, err := s.repo.ListCategories(ctx, CategoryFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	sum := &Summary{
		Period:  r,
		Income:  decimal.Zero,
		Expense: decimal.Zero,
		AsOf:    period.Date(s.now()),
	}

	for _, t := range txs {
		switch t.Kind {
		case KindIncome:
			sum.Income = sum.Income.Add(t.Amount)
		case KindExpense:
			sum.Expense = sum.Expense.Add(t.Amount)
		}
	}

	sum.Net = sum.Income.Sub(sum.Expense)
	sum.Categories = totalsByCategory(txs, categories)

	if err := s.openItems(ctx, sum); err != nil {
		return nil, err
	}

	return sum, nil
}

func (s *Service) openItems(ctx context.Context, sum *Summary) error {
	pending := StatusPending

	txs, err := s.repo.ListTransactions(ctx, ListFilter{Status: &pending})
	if err != nil {
		return fmt.Errorf("listing pending transactions: %w", err)
	}

	sum.Payables.Total = decimal.Zero
	sum.Receivables.Total = decimal.Zero

	for _, t := range txs {
		if t.DueDate == nil {
			continue
		}

		due := period.Date(*t.DueDate)

		switch {
		case t.Kind == KindExpense && !due.Before(sum.AsOf):
			sum.Payables.Total = sum.Payables.Total.Add(t.Amount)
			sum.Payables.Count++
		case t.Kind == KindIncome && !due.Before(sum.AsOf):
			sum.Receivables.Total = sum.Receivables.Total.Add(t.Amount)
			sum.Receivables.Count++
		case t.Kind == KindExpense:
			days := finance.DaysLate(due, sum.AsOf)
			sum.Overdue = append(sum.Overdue, Overdue{
				Transaction: t,
				DaysLate:    days,
				Charges:     finance.DefaultLatePolicy.Charges(t.Amount, days),
			})
		}
	}

	slices.SortFunc(sum.Overdue, func(a, b Overdue) int {
		return cmp.Compare(b.DaysLate, a.DaysLate)
	})

	return nil
}

func totalsByCategory(txs []*Transaction, categories []*Category) []CategoryTotal {
	byID := make(map[uuid.UUID]*Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	totals := make(map[uuid.UUID]*CategoryTotal)

	for _, t := range txs {
		if t.Kind == KindTransfer {
			continue
		}

		key := uuid.Nil
		if t.CategoryID != nil {
			key = *t.CategoryID
		}

		ct, ok := totals[key]
		if !ok {
			ct = &CategoryTotal{Total: decimal.Zero}
			if c, found := byID[key]; found {
				ct.CategoryID = &c.ID
				ct.Name = c.Name
				ct.Kind = c.Kind
			}

			totals[key] = ct
		}

		ct.Total = ct.Total.Add(t.Amount)
		ct.Count++
	}

	out := make([]CategoryTotal, 0, len(totals))
	for _, ct := range totals {
		out = append(out, *ct)
	}

	slices.SortFunc(out, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	return out
}
