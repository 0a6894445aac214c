package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
)

type ImportResult struct {
	Created []*Transaction
	// Skipped holds incoming rows already recorded on the account.
	Skipped []*Transaction
}

type importKey struct {
	Date           string
	Amount         string
	Kind           Kind
	RawDescription string
}

func keyOf(t *Transaction) importKey {
	return importKey{
		Date:           t.Date.Format("2006-01-02"),
		Amount:         t.Amount.StringFixed(2),
		Kind:           t.Kind,
		RawDescription: t.RawDescription,
	}
}

// ImportBatch records the rows of a bank statement on accountID. Rows matching
// an earlier import on the same date, amount, kind and raw description are
// skipped, one for each matching row already recorded. Imports into the same account are serialized so re-uploading a
// statement twice at once cannot double it.
func (s *Service) ImportBatch(ctx context.Context, accountID uuid.UUID, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	for i := range params {
		if params[i].AccountID != accountID {
			return nil, fmt.Errorf("row %d: %w", i+1, apperr.Invalid("account_id", "must match the import account"))
		}
	}

	incoming, err := batch(params)
	if err != nil {
		return nil, err
	}

	uow, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer uow.Rollback()

	if err := uow.LockImports(ctx, accountID); err != nil {
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	from, to := incoming[0].Date, incoming[0].Date
	for _, t := range incoming {
		if t.Date.Before(from) {
			from = t.Date
		}

		if t.Date.After(to) {
			to = t.Date
		}
	}

	existing, err := uow.FindImported(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("finding previous imports: %w", err)
	}

	// Each recorded row absorbs one identical incoming row, so a statement
	// listing more identical purchases than were imported before adds the rest.
	recorded := make(map[importKey]int, len(existing))
	for _, t := range existing {
		recorded[keyOf(t)]++
	}

	res := &ImportResult{}

	for _, t := range incoming {
		k := keyOf(t)
		if recorded[k] > 0 {
			recorded[k]--
			res.Skipped = append(res.Skipped, t)

			continue
		}

		res.Created = append(res.Created, t)
	}

	if err := insertAll(ctx, uow, res.Created); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.logger.InfoContext(ctx, "imported statement",
		"account_id", accountID,
		"created", len(res.Created),
		"skipped", len(res.Skipped),
	)

	return res, nil
}
