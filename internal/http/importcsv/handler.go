package importcsv

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=importcsv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/auth"
	"github.com/MrJamesThe3rd/brazaforte/internal/http/respond"
	"github.com/MrJamesThe3rd/brazaforte/internal/importer"
	"github.com/MrJamesThe3rd/brazaforte/internal/importer/statement"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
	"github.com/MrJamesThe3rd/brazaforte/internal/retry"
)

type Service interface {
	Preview(ctx context.Context, r io.Reader) (*statement.Result, error)
	Import(ctx context.Context, req importer.Request, r io.Reader) (*importer.Report, error)
}

type Handler struct {
	svc      Service
	retry    retry.Policy
	maxBytes int64
}

func NewHandler(svc Service, policy retry.Policy, maxBytes int64) *Handler {
	return &Handler{svc: svc, retry: policy, maxBytes: maxBytes}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importStatement)
	r.Post("/preview", h.preview)
}

type rowResponse struct {
	Kind           ledger.Kind     `json:"kind"`
	Description    string          `json:"description"`
	RawDescription string          `json:"raw_description"`
	Amount         decimal.Decimal `json:"amount"`
	Date           respond.Date    `json:"date"`
	CategoryID     *uuid.UUID      `json:"category_id,omitempty"`
}

type previewResponse struct {
	Profile string        `json:"profile"`
	Charset string        `json:"charset"`
	Rows    []rowResponse `json:"rows"`
}

type transactionResponse struct {
	ID             uuid.UUID       `json:"id"`
	Kind           ledger.Kind     `json:"kind"`
	Status         ledger.Status   `json:"status"`
	Description    string          `json:"description"`
	RawDescription string          `json:"raw_description"`
	Amount         decimal.Decimal `json:"amount"`
	Date           respond.Date    `json:"date"`
	CategoryID     *uuid.UUID      `json:"category_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type importResponse struct {
	Profile      string                `json:"profile"`
	Charset      string                `json:"charset"`
	Created      int                   `json:"created"`
	Skipped      int                   `json:"skipped"`
	Transactions []transactionResponse `json:"transactions"`
	Duplicates   []transactionResponse `json:"duplicates"`
}

func toTransactions(txs []*ledger.Transaction) []transactionResponse {
	out := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = transactionResponse{
			ID:             tx.ID,
			Kind:           tx.Kind,
			Status:         tx.Status,
			Description:    tx.Description,
			RawDescription: tx.RawDescription,
			Amount:         tx.Amount,
			Date:           respond.Date(tx.Date),
			CategoryID:     tx.CategoryID,
			CreatedAt:      tx.CreatedAt,
		}
	}

	return out
}

// readFile buffers the uploaded "file" part so the import can be replayed
// after a conflict.
func (h *Handler) readFile(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.Invalid("file", fmt.Sprintf("must not exceed %d bytes", h.maxBytes))
		}

		return nil, apperr.Invalid("body", "expected a multipart form: "+err.Error())
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, apperr.Invalid("file", "required")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	return data, nil
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	data, err := h.readFile(w, r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	res, err := h.svc.Preview(r.Context(), bytes.NewReader(data))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := previewResponse{Profile: res.Profile, Charset: res.Charset, Rows: make([]rowResponse, len(res.Params))}
	for i, p := range res.Params {
		resp.Rows[i] = rowResponse{
			Kind:           p.Kind,
			Description:    p.Description,
			RawDescription: p.RawDescription,
			Amount:         p.Amount,
			Date:           respond.Date(p.Date),
			CategoryID:     p.CategoryID,
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	data, err := h.readFile(w, r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	accountID, err := uuid.Parse(r.FormValue("account_id"))
	if err != nil {
		respond.Error(w, r, apperr.Invalid("account_id", "must be a UUID"))
		return
	}

	req := importer.Request{
		AccountID: accountID,
		Status:    ledger.Status(r.FormValue("status")),
		CreatedBy: actor.Subject,
	}

	report, err := retry.Do(r.Context(), h.retry, func() (*importer.Report, error) {
		return h.svc.Import(r.Context(), req, bytes.NewReader(data))
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, importResponse{
		Profile:      report.Profile,
		Charset:      report.Charset,
		Created:      len(report.Created),
		Skipped:      len(report.Skipped),
		Transactions: toTransactions(report.Created),
		Duplicates:   toTransactions(report.Skipped),
	})
}
