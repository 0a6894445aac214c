package matching

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=matching

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
	"github.com/MrJamesThe3rd/brazaforte/internal/http/respond"
	"github.com/MrJamesThe3rd/brazaforte/internal/matching"
)

type Service interface {
	Create(ctx context.Context, params matching.Params) (*matching.Rule, error)
	List(ctx context.Context) ([]*matching.Rule, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Apply(ctx context.Context, raw string) (matching.Applied, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.learn)
	r.Get("/suggest", h.suggest)
	r.Delete("/{id}", h.delete)
}

type ruleRequest struct {
	Pattern     string     `json:"pattern" validate:"required,max=200"`
	Description string     `json:"description" validate:"required,max=200"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
}

type ruleResponse struct {
	ID          uuid.UUID  `json:"id"`
	Pattern     string     `json:"pattern"`
	Description string     `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toResponse(r *matching.Rule) ruleResponse {
	return ruleResponse{
		ID:          r.ID,
		Pattern:     r.Pattern,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		CreatedAt:   r.CreatedAt,
	}
}

type suggestResponse struct {
	RawDescription string     `json:"raw_description"`
	Description    string     `json:"description"`
	CategoryID     *uuid.UUID `json:"category_id,omitempty"`
	Matched        bool       `json:"matched"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]ruleResponse, len(rules))
	for i, rule := range rules {
		resp[i] = toResponse(rule)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	rule, err := h.svc.Create(r.Context(), matching.Params{
		Pattern:     req.Pattern,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(rule))
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	raw := respond.NewQuery(r).String("raw_description")
	if raw == "" {
		respond.Error(w, r, apperr.Invalid("raw_description", "required"))
		return
	}

	applied, err := h.svc.Apply(r.Context(), raw)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, suggestResponse{
		RawDescription: raw,
		Description:    applied.Description,
		CategoryID:     applied.CategoryID,
		Matched:        applied.Matched,
	})
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
