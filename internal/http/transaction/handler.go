package transaction

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=transaction

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/auth"
	"github.com/MrJamesThe3rd/brazaforte/internal/http/respond"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
	"github.com/MrJamesThe3rd/brazaforte/internal/retry"
)

type Service interface {
	CreateTransaction(ctx context.Context, params ledger.CreateParams) (*ledger.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)
	ListTransactions(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error)
	UpdateTransaction(ctx context.Context, id uuid.UUID, params ledger.UpdateParams) (*ledger.Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status ledger.Status) (*ledger.Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	MonthlySummary(ctx context.Context, year, month int) (*ledger.Summary, error)
}

type Handler struct {
	svc   Service
	retry retry.Policy
}

func NewHandler(svc Service, policy retry.Policy) *Handler {
	return &Handler{svc: svc, retry: policy}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/summary", h.summary)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Patch("/{id}/status", h.updateStatus)
	r.Delete("/{id}", h.delete)
}

type transactionRequest struct {
	Kind                 ledger.Kind     `json:"kind" validate:"required,oneof=income expense transfer"`
	Description          string          `json:"description" validate:"required,max=255"`
	Amount               decimal.Decimal `json:"amount"`
	Date                 respond.Date    `json:"date"`
	DueDate              *respond.Date   `json:"due_date,omitempty"`
	PaidDate             *respond.Date   `json:"paid_date,omitempty"`
	Status               ledger.Status   `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
	CategoryID           *uuid.UUID      `json:"category_id,omitempty"`
	AccountID            uuid.UUID       `json:"account_id" validate:"required"`
	DestinationAccountID *uuid.UUID      `json:"destination_account_id,omitempty"`
	ClientID             *uuid.UUID      `json:"client_id,omitempty"`
	Notes                string          `json:"notes" validate:"max=2000"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFrom(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req transactionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params := ledger.CreateParams{
		Kind:                 req.Kind,
		Description:          req.Description,
		Amount:               req.Amount,
		Date:                 req.Date.Time(),
		DueDate:              respond.DatePtr(req.DueDate),
		PaidDate:             respond.DatePtr(req.PaidDate),
		Status:               req.Status,
		CategoryID:           req.CategoryID,
		AccountID:            req.AccountID,
		DestinationAccountID: req.DestinationAccountID,
		ClientID:             req.ClientID,
		Notes:                req.Notes,
		CreatedBy:            actor.Subject,
	}

	tx, err := retry.Do(r.Context(), h.retry, func() (*ledger.Transaction, error) {
		return h.svc.CreateTransaction(r.Context(), params)
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := respond.NewQuery(r)

	filter := ledger.ListFilter{
		AccountID:  q.UUID("account_id"),
		CategoryID: q.UUID("category_id"),
		ClientID:   q.UUID("client_id"),
		StartDate:  q.Date("start_date"),
		EndDate:    q.Date("end_date"),
		Search:     q.String("search"),
	}

	if err := q.Err(); err != nil {
		respond.Error(w, r, err)
		return
	}

	if s := q.String("kind"); s != "" {
		filter.Kind = new(ledger.Kind(s))
	}

	if s := q.String("status"); s != "" {
		filter.Status = new(ledger.Status(s))
	}

	txs, err := h.svc.ListTransactions(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.GetTransaction(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req transactionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	// Status is required here; ledger.Validate rejects the empty status.
	params := ledger.UpdateParams{
		Kind:                 req.Kind,
		Description:          req.Description,
		Amount:               req.Amount,
		Date:                 req.Date.Time(),
		DueDate:              respond.DatePtr(req.DueDate),
		PaidDate:             respond.DatePtr(req.PaidDate),
		Status:               req.Status,
		CategoryID:           req.CategoryID,
		AccountID:            req.AccountID,
		DestinationAccountID: req.DestinationAccountID,
		ClientID:             req.ClientID,
		Notes:                req.Notes,
	}

	tx, err := retry.Do(r.Context(), h.retry, func() (*ledger.Transaction, error) {
		return h.svc.UpdateTransaction(r.Context(), id, params)
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

type updateStatusRequest struct {
	Status ledger.Status `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := retry.Do(r.Context(), h.retry, func() (*ledger.Transaction, error) {
		return h.svc.UpdateStatus(r.Context(), id, req.Status)
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	err = retry.Run(r.Context(), h.retry, func() error {
		return h.svc.DeleteTransaction(r.Context(), id)
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	q := respond.NewQuery(r)
	year, month := q.RequiredInt("year"), q.RequiredInt("month")

	if err := q.Err(); err != nil {
		respond.Error(w, r, err)
		return
	}

	sum, err := h.svc.MonthlySummary(r.Context(), year, month)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSummaryResponse(sum))
}
