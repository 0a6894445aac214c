package client

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=client

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/brazaforte/internal/client"
	"github.com/MrJamesThe3rd/brazaforte/internal/http/respond"
)

type Service interface {
	Create(ctx context.Context, params client.Params) (*client.Client, error)
	Get(ctx context.Context, id uuid.UUID) (*client.Client, error)
	List(ctx context.Context, filter client.ListFilter) ([]*client.Client, error)
	Update(ctx context.Context, id uuid.UUID, params client.Params) (*client.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
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

type clientRequest struct {
	Kind     client.Kind `json:"kind" validate:"required,oneof=individual company"`
	Name     string      `json:"name" validate:"required,max=200"`
	Document string      `json:"document" validate:"required,max=20"`
	Email    string      `json:"email" validate:"required,email"`
	Phone    string      `json:"phone" validate:"max=20"`
	Address  string      `json:"address"`
	Active   *bool       `json:"active,omitempty"`
}

func (req clientRequest) params() client.Params {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return client.Params{
		Kind:     req.Kind,
		Name:     req.Name,
		Document: req.Document,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Active:   active,
	}
}

type clientResponse struct {
	ID        uuid.UUID   `json:"id"`
	Kind      client.Kind `json:"kind"`
	Name      string      `json:"name"`
	Document  string      `json:"document"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"created_at"`
}

func toResponse(c *client.Client) clientResponse {
	return clientResponse{
		ID:        c.ID,
		Kind:      c.Kind,
		Name:      c.Name,
		Document:  c.Document,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.svc.Create(r.Context(), req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := respond.NewQuery(r)
	filter := client.ListFilter{Active: q.Bool("active"), Search: q.String("search")}

	if err := q.Err(); err != nil {
		respond.Error(w, r, err)
		return
	}

	if s := q.String("kind"); s != "" {
		filter.Kind = new(client.Kind(s))
	}

	clients, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]clientResponse, len(clients))
	for i, c := range clients {
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

	c, err := h.svc.Get(r.Context(), id)
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

	var req clientRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.svc.Update(r.Context(), id, req.params())
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

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
