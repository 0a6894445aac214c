package category

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=category

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/brazaforte/internal/http/respond"
	"github.com/MrJamesThe3rd/brazaforte/internal/ledger"
)

type Service interface {
	CreateCategory(ctx context.Context, params ledger.CategoryParams) (*ledger.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*ledger.Category, error)
	ListCategories(ctx context.Context, filter ledger.CategoryFilter) ([]*ledger.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, params ledger.CategoryParams) (*ledger.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
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
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type categoryRequest struct {
	Name        string              `json:"name" validate:"required,max=100"`
	Kind        ledger.CategoryKind `json:"kind" validate:"required,oneof=revenue expense"`
	Description string              `json:"description" validate:"max=500"`
}

func (req categoryRequest) params() ledger.CategoryParams {
	return ledger.CategoryParams{Name: req.Name, Kind: req.Kind, Description: req.Description}
}

type categoryResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Kind        ledger.CategoryKind `json:"kind"`
	Description string              `json:"description"`
}

func toResponse(c *ledger.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Kind: c.Kind, Description: c.Description}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.svc.CreateCategory(r.Context(), req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := respond.NewQuery(r)
	filter := ledger.CategoryFilter{Search: q.String("search")}

	if s := q.String("kind"); s != "" {
		filter.Kind = new(ledger.CategoryKind(s))
	}

	categories, err := h.svc.ListCategories(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]categoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toResponse(c)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.svc.GetCategory(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req categoryRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.svc.UpdateCategory(r.Context(), id, req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
