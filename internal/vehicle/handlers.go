package vehicle

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

type vehicleResponse struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Payload Vehicle `json:"payload"`
}

func toResponse(v Vehicle) vehicleResponse {
	return vehicleResponse{ID: v.ID, Title: v.Title, Payload: v}
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	out := make([]vehicleResponse, 0, len(items))
	for _, v := range items {
		out = append(out, toResponse(v))
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}
	v, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(v))
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	var v Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if strings.TrimSpace(v.Plate) == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing plate")
		return
	}
	if v.Status != "" {
		if _, err := ParseStatus(string(v.Status)); err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid status")
			return
		}
	}

	created, err := h.Repo.Create(r.Context(), v, actor)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, toResponse(created))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h Handlers) PatchStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	next, err := ParseStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid status")
		return
	}

	v, err := h.Repo.SetStatus(r.Context(), id, next, actor)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(v))
}
