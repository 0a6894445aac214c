package account

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=account

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/export"
	"github.com/MrJamesThe3rd/brazaforte/internal/http/respond"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
	"github.com/MrJamesThe3rd/brazaforte/internal/retry"
)

type Service interface {
	CreateAccount(ctx context.Context, params ledger.AccountParams) (*ledger.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error)
	ListAccounts(ctx context.Context, filter ledger.AccountFilter) ([]*ledger.Account, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, params ledger.AccountParams) (*ledger.Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	RecomputeAllBalances(ctx context.Context) error
	CheckBalances(ctx context.Context) ([]ledger.Drift, error)
}

type Statements interface {
	Statement(ctx context.Context, accountID uuid.UUID, from, to time.Time) (*export.Statement, error)
}

type Handler struct {
	svc        Service
	statements Statements
	retry      retry.Policy
}

func NewHandler(svc Service, statements Statements, policy retry.Policy) *Handler {
	return &Handler{svc: svc, statements: statements, retry: policy}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/recompute", h.recompute)
	r.Get("/drift", h.drift)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/statement", h.statement)
}

type accountRequest struct {
	Name           string          `json:"name" validate:"required,max=100"`
	Bank           string          `json:"bank" validate:"required,max=100"`
	Branch         string          `json:"branch" validate:"max=20"`
	Number         string          `json:"number" validate:"max=30"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	OpenedOn       respond.Date    `json:"opened_on"`
	Active         *bool           `json:"active,omitempty"`
}

func (req accountRequest) params() ledger.AccountParams {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return ledger.AccountParams{
		Name:           req.Name,
		Bank:           req.Bank,
		Branch:         req.Branch,
		Number:         req.Number,
		OpeningBalance: req.OpeningBalance,
		OpenedOn:       req.OpenedOn.Time(),
		Active:         active,
	}
}

type accountResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Bank           string          `json:"bank"`
	Branch         string          `json:"branch"`
	Number         string          `json:"number"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Balance        decimal.Decimal `json:"balance"`
	OpenedOn       respond.Date    `json:"opened_on"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toResponse(a *ledger.Account) accountResponse {
	return accountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Bank:           a.Bank,
		Branch:         a.Branch,
		Number:         a.Number,
		OpeningBalance: a.OpeningBalance,
		Balance:        a.Balance,
		OpenedOn:       respond.Date(a.OpenedOn),
		Active:         a.Active,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	a, err := h.svc.CreateAccount(r.Context(), req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(a))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := respond.NewQuery(r)
	filter := ledger.AccountFilter{Active: q.Bool("active"), Search: q.String("search")}

	if err := q.Err(); err != nil {
		respond.Error(w, r, err)
		return
	}

	accounts, err := h.svc.ListAccounts(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]accountResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = toResponse(a)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	a, err := h.svc.GetAccount(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(a))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req accountRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	a, err := retry.Do(r.Context(), h.retry, func() (*ledger.Account, error) {
		return h.svc.UpdateAccount(r.Context(), id, req.params())
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(a))
}

// delete answers 409 for accounts still referenced by transactions; those
// are deactivated instead.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.DeleteAccount(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) recompute(w http.ResponseWriter, r *http.Request) {
	err := retry.Run(r.Context(), h.retry, func() error {
		return h.svc.RecomputeAllBalances(r.Context())
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type driftResponse struct {
	AccountID  uuid.UUID       `json:"account_id"`
	Name       string          `json:"name"`
	Cached     decimal.Decimal `json:"cached"`
	Expected   decimal.Decimal `json:"expected"`
	Difference decimal.Decimal `json:"difference"`
}

func (h *Handler) drift(w http.ResponseWriter, r *http.Request) {
	drifts, err := h.svc.CheckBalances(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]driftResponse, 0, len(drifts))
	for _, d := range drifts {
		resp = append(resp, driftResponse{
			AccountID:  d.Account.ID,
			Name:       d.Account.Name,
			Cached:     d.Account.Balance,
			Expected:   d.Expected,
			Difference: d.Difference(),
		})
	}

	respond.JSON(w, http.StatusOK, resp)
}

// statement streams the confirmed movements of the account as CSV. The range
// defaults to the current month.
func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	q := respond.NewQuery(r)
	from, to := q.Date("from"), q.Date("to")

	if err := q.Err(); err != nil {
		respond.Error(w, r, err)
		return
	}

	now := time.Now().UTC()
	if from == nil {
		from = new(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC))
	}

	if to == nil {
		to = new(from.AddDate(0, 1, -1))
	}

	if to.Sub(*from) > 5*366*24*time.Hour {
		respond.Error(w, r, apperr.Invalid("to", "statements cover at most five years"))
		return
	}

	st, err := h.statements.Statement(r.Context(), id, *from, *to)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	filename := fmt.Sprintf("extrato-%s-%s.csv", from.Format("20060102"), to.Format("20060102"))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if err := export.WriteCSV(w, st); err != nil {
		slog.ErrorContext(r.Context(), "failed to write statement", "error", err, "account_id", id)
	}
}
