// Package importer turns an uploaded bank statement into pending ledger
// transactions on one account.
package importer

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/importer/statement"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
	"github.com/MrJamesThe3rd/brazaforte/internal/matching"
)

type Parser interface {
	Parse(r io.Reader) (*statement.Result, error)
}

type Rules interface {
	Apply(ctx context.Context, raw string) (matching.Applied, error)
}

type Ledger interface {
	ImportBatch(ctx context.Context, accountID uuid.UUID, params []ledger.CreateParams) (*ledger.ImportResult, error)
}

type Service struct {
	parser Parser
	rules  Rules
	ledger Ledger
	logger *slog.Logger
}

func NewService(parser Parser, rules Rules, l Ledger, logger *slog.Logger) *Service {
	return &Service{parser: parser, rules: rules, ledger: l, logger: logger}
}

type Request struct {
	AccountID uuid.UUID
	// Status of the created rows; pending when empty. Cancelled rows make no
	// sense for a statement and are rejected.
	Status    ledger.Status
	CreatedBy string
}

type Report struct {
	Profile string
	Charset string
	Created []*ledger.Transaction
	Skipped []*ledger.Transaction
}

// Preview parses a statement and applies the description rules without
// recording anything.
func (s *Service) Preview(ctx context.Context, r io.Reader) (*statement.Result, error) {
	res, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing statement: %w", err)
	}

	for i := range res.Params {
		applied, err := s.rules.Apply(ctx, res.Params[i].RawDescription)
		if err != nil {
			return nil, fmt.Errorf("applying rules: %w", err)
		}

		res.Params[i].Description = applied.Description
		if applied.CategoryID != nil {
			res.Params[i].CategoryID = applied.CategoryID
		}
	}

	return res, nil
}

// Import parses r and records its rows on req.AccountID. Rows already imported
// into the account are reported as skipped.
func (s *Service) Import(ctx context.Context, req Request, r io.Reader) (*Report, error) {
	status := req.Status
	if status == "" {
		status = ledger.StatusPending
	}

	if status != ledger.StatusPending && status != ledger.StatusConfirmed {
		return nil, apperr.Invalid("status", fmt.Sprintf("imports must be pending or confirmed, got %q", status))
	}

	res, err := s.Preview(ctx, r)
	if err != nil {
		return nil, err
	}

	for i := range res.Params {
		res.Params[i].AccountID = req.AccountID
		res.Params[i].Status = status
		res.Params[i].CreatedBy = req.CreatedBy
	}

	out, err := s.ledger.ImportBatch(ctx, req.AccountID, res.Params)
	if err != nil {
		return nil, fmt.Errorf("recording statement: %w", err)
	}

	s.logger.InfoContext(ctx, "statement import finished",
		"account_id", req.AccountID,
		"profile", res.Profile,
		"charset", res.Charset,
		"rows", len(res.Params),
	)

	return &Report{
		Profile: res.Profile,
		Charset: res.Charset,
		Created: out.Created,
		Skipped: out.Skipped,
	}, nil
}
