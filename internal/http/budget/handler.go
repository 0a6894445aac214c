package budget

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=budget

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/budget"
	"github.com/MrJamesThe3rd/brazaforte/internal/finance"
	"github.com/MrJamesThe3rd/brazaforte/internal/http/respond"
)

type Service interface {
	Create(ctx context.Context, params budget.Params) (*budget.Budget, error)
	Get(ctx context.Context, id uuid.UUID) (*budget.Budget, error)
	List(ctx context.Context, filter budget.ListFilter) ([]*budget.Budget, error)
	Update(ctx context.Context, id uuid.UUID, params budget.Params) (*budget.Budget, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Variance(ctx context.Context, year, month int, categoryID uuid.UUID) (*budget.Variance, error)
	Comparison(ctx context.Context, year, month int) ([]budget.Variance, error)
	Projection(ctx context.Context, months int) ([]finance.ProjectedMonth, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/variance", h.variance)
	r.Get("/comparison", h.comparison)
	r.Get("/projection", h.projection)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type budgetRequest struct {
	Year       int             `json:"year" validate:"required,min=1"`
	Month      int             `json:"month" validate:"required,min=1,max=12"`
	CategoryID uuid.UUID       `json:"category_id" validate:"required"`
	Planned    decimal.Decimal `json:"planned"`
}

func (req budgetRequest) params() budget.Params {
	return budget.Params{
		Year:       req.Year,
		Month:      req.Month,
		CategoryID: req.CategoryID,
		Planned:    req.Planned,
	}
}

type budgetResponse struct {
	ID           uuid.UUID       `json:"id"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Planned      decimal.Decimal `json:"planned"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toResponse(b *budget.Budget) budgetResponse {
	return budgetResponse{
		ID:           b.ID,
		Year:         b.Year,
		Month:        b.Month,
		CategoryID:   b.CategoryID,
		CategoryName: b.CategoryName,
		Planned:      b.Planned,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

type varianceResponse struct {
	Budget     budgetResponse  `json:"budget"`
	Planned    decimal.Decimal `json:"planned"`
	Realized   decimal.Decimal `json:"realized"`
	Difference decimal.Decimal `json:"difference"`
}

func toVariance(v *budget.Variance) varianceResponse {
	return varianceResponse{
		Budget:     toResponse(v.Budget),
		Planned:    v.Planned,
		Realized:   v.Realized,
		Difference: v.Difference,
	}
}

type projectedMonthResponse struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
	Balance decimal.Decimal `json:"balance"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	b, err := h.svc.Create(r.Context(), req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(b))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := respond.NewQuery(r)
	filter := budget.ListFilter{
		Year:       q.Int("year"),
		Month:      q.Int("month"),
		CategoryID: q.UUID("category_id"),
	}

	if err := q.Err(); err != nil {
		respond.Error(w, r, err)
		return
	}

	budgets, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]budgetResponse, len(budgets))
	for i, b := range budgets {
		resp[i] = toResponse(b)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req budgetRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	b, err := h.svc.Update(r.Context(), id, req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) variance(w http.ResponseWriter, r *http.Request) {
	q := respond.NewQuery(r)
	year := q.RequiredInt("year")
	month := q.RequiredInt("month")
	categoryID := q.UUID("category_id")

	if err := q.Err(); err != nil {
		respond.Error(w, r, err)
		return
	}

	if categoryID == nil {
		respond.Error(w, r, apperr.Invalid("category_id", "required"))
		return
	}

	v, err := h.svc.Variance(r.Context(), year, month, *categoryID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toVariance(v))
}

func (h *Handler) comparison(w http.ResponseWriter, r *http.Request) {
	q := respond.NewQuery(r)
	year := q.RequiredInt("year")
	month := q.RequiredInt("month")

	if err := q.Err(); err != nil {
		respond.Error(w, r, err)
		return
	}

	variances, err := h.svc.Comparison(r.Context(), year, month)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]varianceResponse, len(variances))
	for i := range variances {
		resp[i] = toVariance(&variances[i])
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) projection(w http.ResponseWriter, r *http.Request) {
	q := respond.NewQuery(r)

	months := 12
	if n := q.Int("months"); n != nil {
		months = *n
	}

	if err := q.Err(); err != nil {
		respond.Error(w, r, err)
		return
	}

	projected, err := h.svc.Projection(r.Context(), months)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]projectedMonthResponse, len(projected))
	for i, p := range projected {
		resp[i] = projectedMonthResponse(p)
	}

	respond.JSON(w, http.StatusOK, resp)
}
