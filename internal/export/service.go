// Package export renders account statements with a running balance.
package export

//go:generate mockgen -source=service.go -destination=ledger_mock.go -package=export

import (
	"cmp"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
	"github.com/MrJamesThe3rd/brazaforte/internal/period"
)

type Ledger interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error)
	ListTransactions(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error)
}

// Line is one confirmed movement and the account balance right after it.
type Line struct {
	Transaction *ledger.Transaction
	Delta       decimal.Decimal
	Balance     decimal.Decimal
}

type Statement struct {
	Account *ledger.Account
	From    time.Time
	To      time.Time // inclusive
	Opening decimal.Decimal
	Closing decimal.Decimal
	Lines   []Line
}

type Service struct {
	ledger Ledger
}

func NewService(l Ledger) *Service {
	return &Service{ledger: l}
}

// Statement lists the confirmed movements of accountID dated within
// [from, to]. Opening is the balance at the start of from: the opening
// balance of the account plus every confirmed movement dated earlier.
func (s *Service) Statement(ctx context.Context, accountID uuid.UUID, from, to time.Time) (*Statement, error) {
	from, to = period.Date(from), period.Date(to)
	if to.Before(from) {
		return nil, apperr.Invalid("to", "must not be before from")
	}

	account, err := s.ledger.GetAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}

	confirmed := ledger.StatusConfirmed

	earlier, err := s.ledger.ListTransactions(ctx, ledger.ListFilter{
		AccountID: &accountID,
		Status:    &confirmed,
		EndDate:   &from,
	})
	if err != nil {
		return nil, fmt.Errorf("listing earlier movements: %w", err)
	}

	end := to.AddDate(0, 0, 1)

	txs, err := s.ledger.ListTransactions(ctx, ledger.ListFilter{
		AccountID: &accountID,
		Status:    &confirmed,
		StartDate: &from,
		EndDate:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("listing movements: %w", err)
	}

	st := &Statement{
		Account: account,
		From:    from,
		To:      to,
		Opening: account.OpeningBalance,
	}

	for _, t := range earlier {
		st.Opening = st.Opening.Add(t.Deltas()[accountID])
	}

	slices.SortStableFunc(txs, func(a, b *ledger.Transaction) int {
		return cmp.Compare(a.Date.Unix(), b.Date.Unix())
	})

	balance := st.Opening

	for _, t := range txs {
		delta := t.Deltas()[accountID]
		balance = balance.Add(delta)

		st.Lines = append(st.Lines, Line{Transaction: t, Delta: delta, Balance: balance})
	}

	st.Closing = balance

	return st, nil
}

var csvHeader = []string{"date", "description", "kind", "amount", "balance", "transaction_id"}

// WriteCSV writes st as CSV: an opening row, one row per line with the signed
// amount, and a closing row.
func WriteCSV(w io.Writer, st *Statement) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		csvHeader,
		{st.From.Format(time.DateOnly), "Saldo anterior", "", "", st.Opening.StringFixed(2), ""},
	}

	for _, l := range st.Lines {
		rows = append(rows, []string{
			l.Transaction.Date.Format(time.DateOnly),
			l.Transaction.Description,
			string(l.Transaction.Kind),
			l.Delta.StringFixed(2),
			l.Balance.StringFixed(2),
			l.Transaction.ID.String(),
		})
	}

	rows = append(rows, []string{st.To.Format(time.DateOnly), "Saldo final", "", "", st.Closing.StringFixed(2), ""})

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing statement: %w", err)
	}

	return nil
}
