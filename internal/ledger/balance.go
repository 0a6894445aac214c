package ledger

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deltas returns the signed amount this transaction adds to each account it
// touches. Non-confirmed transactions touch nothing.
//
//	income   -> source += amount
//	expense  -> source -= amount
//	transfer -> source -= amount, destination += amount
func (t *Transaction) Deltas() map[uuid.UUID]decimal.Decimal {
	if t.Status != StatusConfirmed {
		return nil
	}

	switch t.Kind {
	case KindIncome:
		return map[uuid.UUID]decimal.Decimal{t.AccountID: t.Amount}
	case KindExpense:
		return map[uuid.UUID]decimal.Decimal{t.AccountID: t.Amount.Neg()}
	case KindTransfer:
		if t.DestinationAccountID == nil {
			return nil
		}

		return map[uuid.UUID]decimal.Decimal{
			t.AccountID:             t.Amount.Neg(),
			*t.DestinationAccountID: t.Amount,
		}
	}

	return nil
}

// ComputeBalances derives the balance of every given account from scratch:
// its opening balance plus the deltas of every transaction. Transactions
// referencing accounts outside the given set are ignored for those accounts.
func ComputeBalances(accounts []*Account, txs []*Transaction) map[uuid.UUID]decimal.Decimal {
	balances := make(map[uuid.UUID]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		balances[a.ID] = a.OpeningBalance
	}

	for _, t := range txs {
		for id, d := range t.Deltas() {
			b, ok := balances[id]
			if !ok {
				continue
			}

			balances[id] = b.Add(d)
		}
	}

	return balances
}

// mergeDeltas sums the deltas of several transactions per account.
func mergeDeltas(txs []*Transaction) map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal)

	for _, t := range txs {
		for id, d := range t.Deltas() {
			out[id] = out[id].Add(d)
		}
	}

	return out
}

// sortedIDs returns the keys of m in ascending byte order. Account rows are
// locked in this order, before any transaction row referencing them is
// inserted, so writers touching the same accounts queue instead of deadlocking.
func sortedIDs[V any](m map[uuid.UUID]V) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}

	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})

	return ids
}

// Drift is an account whose cached balance disagrees with the ledger.
type Drift struct {
	Account  *Account
	Expected decimal.Decimal
}

// Difference is cached minus expected.
func (d Drift) Difference() decimal.Decimal {
	return d.Account.Balance.Sub(d.Expected)
}
