package client

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"rentalboard/internal/api"
)

type Handlers struct {
	Repo *Repository
}

type clientResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Payload Client `json:"payload"`
}

func toResponse(c Client) clientResponse {
	return clientResponse{ID: c.ID, Title: c.Title, Payload: c}
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	out := make([]clientResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toResponse(c))
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}
	c, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(c))
}

// Create registers a client. Agents may create clients too, so this sits
// behind the session check only, not the admin gate.
func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	var c Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if strings.TrimSpace(c.FullName) == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing full_name")
		return
	}

	created, err := h.Repo.Create(r.Context(), c, actor)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, toResponse(created))
}
