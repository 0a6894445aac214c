package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
)

type CreateParams struct {
	Kind                 Kind
	Description          string
	RawDescription       string
	Amount               decimal.Decimal
	Date                 time.Time
	DueDate              *time.Time
	PaidDate             *time.Time
	Status               Status
	CategoryID           *uuid.UUID
	AccountID            uuid.UUID
	DestinationAccountID *uuid.UUID
	ClientID             *uuid.UUID
	Notes                string
	CreatedBy            string
}

// UpdateParams replaces every editable field of a transaction.
type UpdateParams struct {
	Kind                 Kind
	Description          string
	Amount               decimal.Decimal
	Date                 time.Time
	DueDate              *time.Time
	PaidDate             *time.Time
	Status               Status
	CategoryID           *uuid.UUID
	AccountID            uuid.UUID
	DestinationAccountID *uuid.UUID
	ClientID             *uuid.UUID
	Notes                string
}

// UpdateParamsFrom returns params that would leave tx unchanged, for callers
// that only want to edit a few fields.
func UpdateParamsFrom(tx *Transaction) UpdateParams {
	return UpdateParams{
		Kind:                 tx.Kind,
		Description:          tx.Description,
		Amount:               tx.Amount,
		Date:                 tx.Date,
		DueDate:              tx.DueDate,
		PaidDate:             tx.PaidDate,
		Status:               tx.Status,
		CategoryID:           tx.CategoryID,
		AccountID:            tx.AccountID,
		DestinationAccountID: tx.DestinationAccountID,
		ClientID:             tx.ClientID,
		Notes:                tx.Notes,
	}
}

func (p UpdateParams) apply(tx *Transaction) {
	tx.Kind = p.Kind
	tx.Description = p.Description
	tx.Amount = p.Amount
	tx.Date = p.Date
	tx.DueDate = p.DueDate
	tx.PaidDate = p.PaidDate
	tx.Status = p.Status
	tx.CategoryID = p.CategoryID
	tx.AccountID = p.AccountID
	tx.DestinationAccountID = p.DestinationAccountID
	tx.ClientID = p.ClientID
	tx.Notes = p.Notes
}

func (p CreateParams) transaction() *Transaction {
	status := p.Status
	if status == "" {
		status = StatusPending
	}

	return &Transaction{
		Kind:                 p.Kind,
		Description:          strings.TrimSpace(p.Description),
		RawDescription:       p.RawDescription,
		Amount:               p.Amount,
		Date:                 p.Date,
		DueDate:              p.DueDate,
		PaidDate:             p.PaidDate,
		Status:               status,
		CategoryID:           p.CategoryID,
		AccountID:            p.AccountID,
		DestinationAccountID: p.DestinationAccountID,
		ClientID:             p.ClientID,
		Notes:                p.Notes,
		CreatedBy:            p.CreatedBy,
	}
}

// Validate checks the invariants a transaction must hold on its own.
func Validate(tx *Transaction) error {
	switch {
	case !tx.Kind.Valid():
		return apperr.Invalid("kind", fmt.Sprintf("unknown kind %q", tx.Kind))
	case !tx.Status.Valid():
		return apperr.Invalid("status", fmt.Sprintf("unknown status %q", tx.Status))
	case tx.Description == "":
		return apperr.Invalid("description", "required")
	case !tx.Amount.IsPositive():
		return apperr.Invalid("amount", "must be greater than zero")
	case !wholeCents(tx.Amount):
		return apperr.Invalid("amount", "at most 2 decimal places")
	case tx.Date.IsZero():
		return apperr.Invalid("date", "required")
	case tx.AccountID == uuid.Nil:
		return apperr.Invalid("account_id", "required")
	case tx.CreatedBy == "":
		return apperr.Invalid("created_by", "required")
	}

	if tx.Kind == KindTransfer {
		if tx.DestinationAccountID == nil || *tx.DestinationAccountID == uuid.Nil {
			return apperr.Invalid("destination_account_id", "required for transfers")
		}

		if *tx.DestinationAccountID == tx.AccountID {
			return apperr.Invalid("destination_account_id", "must differ from account_id")
		}

		return nil
	}

	if tx.DestinationAccountID != nil {
		return apperr.Invalid("destination_account_id", "only allowed for transfers")
	}

	return nil
}

// wholeCents reports whether d fits the two decimal places accounts are kept in.
func wholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// checkReferences verifies that every account and category tx points to exists.
func checkReferences(ctx context.Context, uow UnitOfWork, tx *Transaction) error {
	if _, err := uow.GetAccount(ctx, tx.AccountID); err != nil {
		return referenceError("account_id", err)
	}

	if tx.DestinationAccountID != nil {
		if _, err := uow.GetAccount(ctx, *tx.DestinationAccountID); err != nil {
			return referenceError("destination_account_id", err)
		}
	}

	if tx.CategoryID != nil {
		if _, err := uow.GetCategory(ctx, *tx.CategoryID); err != nil {
			return referenceError("category_id", err)
		}
	}

	return nil
}

func referenceError(field string, err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("%s: %w", field, err)
	}

	return fmt.Errorf("loading %s: %w", field, err)
}

// CreateTransaction records a new transaction. A confirmed transaction is
// applied to its accounts incrementally; nothing else can be affected by a
// brand new row, so no recompute is needed.
func (s *Service) CreateTransaction(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx := params.transaction()
	if err := Validate(tx); err != nil {
		return nil, err
	}

	uow, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer uow.Rollback()

	if err := checkReferences(ctx, uow, tx); err != nil {
		return nil, err
	}

	deltas := tx.Deltas()
	if err := lockAccounts(ctx, uow, deltas); err != nil {
		return nil, err
	}

	if err := uow.InsertTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("inserting transaction: %w", err)
	}

	if err := adjustBalances(ctx, uow, deltas); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return tx, nil
}

// CreateBatch inserts many transactions in one unit of work. Either all rows
// and their balance effects are committed, or none.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	txs, err := batch(params)
	if err != nil {
		return nil, err
	}

	uow, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer uow.Rollback()

	if err := insertAll(ctx, uow, txs); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return txs, nil
}

func batch(params []CreateParams) ([]*Transaction, error) {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = p.transaction()
		if err := Validate(txs[i]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	return txs, nil
}

func insertAll(ctx context.Context, uow UnitOfWork, txs []*Transaction) error {
	for i, tx := range txs {
		if err := checkReferences(ctx, uow, tx); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	deltas := mergeDeltas(txs)
	if err := lockAccounts(ctx, uow, deltas); err != nil {
		return err
	}

	for i, tx := range txs {
		if err := uow.InsertTransaction(ctx, tx); err != nil {
			return fmt.Errorf("inserting row %d: %w", i+1, err)
		}
	}

	return adjustBalances(ctx, uow, deltas)
}

// lockAccounts row-locks every account in deltas. It must run before the
// transaction rows are inserted: the insert's foreign key check holds a key
// share lock on the account, which a concurrent FOR UPDATE would wait on.
func lockAccounts(ctx context.Context, uow UnitOfWork, deltas map[uuid.UUID]decimal.Decimal) error {
	if len(deltas) == 0 {
		return nil
	}

	if err := uow.LockAccounts(ctx, sortedIDs(deltas)); err != nil {
		return fmt.Errorf("locking accounts: %w", err)
	}

	return nil
}

func adjustBalances(ctx context.Context, uow UnitOfWork, deltas map[uuid.UUID]decimal.Decimal) error {
	for _, id := range sortedIDs(deltas) {
		if deltas[id].IsZero() {
			continue
		}

		if err := uow.AdjustBalance(ctx, id, deltas[id]); err != nil {
			return fmt.Errorf("adjusting balance of %s: %w", id, err)
		}
	}

	return nil
}

// UpdateTransaction replaces a transaction's fields. Any edit may move money
// between accounts in ways a single delta cannot express safely, so every
// update is followed by a full recompute inside the same unit of work.
func (s *Service) UpdateTransaction(ctx context.Context, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	return s.update(ctx, id, params.apply)
}

// UpdateStatus moves a transaction to another status, e.g. confirming a pending payment.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Transaction, error) {
	return s.update(ctx, id, func(tx *Transaction) {
		tx.Status = status
	})
}

func (s *Service) update(ctx context.Context, id uuid.UUID, mutate func(*Transaction)) (*Transaction, error) {
	uow, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer uow.Rollback()

	tx, err := uow.GetTransactionForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	mutate(tx)
	tx.Description = strings.TrimSpace(tx.Description)

	if err := Validate(tx); err != nil {
		return nil, err
	}

	if err := checkReferences(ctx, uow, tx); err != nil {
		return nil, err
	}

	if err := uow.LockAllAccounts(ctx); err != nil {
		return nil, fmt.Errorf("locking accounts: %w", err)
	}

	if err := uow.ReplaceTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("updating transaction: %w", err)
	}

	if _, err := s.recompute(ctx, uow); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return tx, nil
}

// DeleteTransaction removes a transaction. Removing a confirmed one triggers
// a full recompute; other statuses never contributed, so balances stay as they are.
func (s *Service) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	uow, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer uow.Rollback()

	tx, err := uow.GetTransactionForUpdate(ctx, id)
	if err != nil {
		return fmt.Errorf("getting transaction: %w", err)
	}

	confirmed := tx.Status == StatusConfirmed
	if confirmed {
		if err := uow.LockAllAccounts(ctx); err != nil {
			return fmt.Errorf("locking accounts: %w", err)
		}
	}

	if err := uow.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if confirmed {
		if _, err := s.recompute(ctx, uow); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}
