package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/database"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
)

// unit implements ledger.UnitOfWork on a single *sql.Tx.
type unit struct {
	tx *sql.Tx
}

func (u *unit) GetTransactionForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	return getTransaction(ctx, u.tx, id, true)
}

func (u *unit) InsertTransaction(ctx context.Context, tx *ledger.Transaction) error {
	return insertTransaction(ctx, u.tx, tx)
}

func (u *unit) ReplaceTransaction(ctx context.Context, tx *ledger.Transaction) error {
	return replaceTransaction(ctx, u.tx, tx)
}

func (u *unit) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return deleteTransaction(ctx, u.tx, id)
}

func (u *unit) ListConfirmed(ctx context.Context) ([]*ledger.Transaction, error) {
	return listConfirmed(ctx, u.tx)
}

func (u *unit) GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	return getAccount(ctx, u.tx, id)
}

func (u *unit) GetCategory(ctx context.Context, id uuid.UUID) (*ledger.Category, error) {
	return getCategory(ctx, u.tx, id)
}

func (u *unit) UpdateAccount(ctx context.Context, a *ledger.Account) error {
	return updateAccount(ctx, u.tx, a)
}

func (u *unit) ListAccounts(ctx context.Context) ([]*ledger.Account, error) {
	return queryAccounts(ctx, u.tx, `SELECT `+selectAccountColumns+` FROM accounts`)
}

func (u *unit) LockAccounts(ctx context.Context, ids []uuid.UUID) error {
	return lockAccounts(ctx, u.tx, ids)
}

func (u *unit) LockAllAccounts(ctx context.Context) error {
	return lockAllAccounts(ctx, u.tx)
}

func (u *unit) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return adjustBalance(ctx, u.tx, id, delta)
}

func (u *unit) SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	return setBalance(ctx, u.tx, id, balance)
}

func importLockKey(accountID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("import"))
	h.Write([]byte{0})
	h.Write(accountID[:])

	return int64(h.Sum64())
}

func (u *unit) LockImports(ctx context.Context, accountID uuid.UUID) error {
	if _, err := u.tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(accountID)); err != nil {
		return fmt.Errorf("acquiring import lock: %w", database.Classify(err))
	}

	return nil
}

func (u *unit) FindImported(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*ledger.Transaction, error) {
	return findImported(ctx, u.tx, accountID, from, to)
}

func (u *unit) Commit() error {
	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", database.Classify(err))
	}

	return nil
}

// Rollback is a no-op after Commit.
func (u *unit) Rollback() error {
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}
