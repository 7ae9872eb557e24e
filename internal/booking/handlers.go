package booking

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"rentalboard/internal/api"
	"rentalboard/internal/notify"
)

type Handlers struct {
	Engine   *Engine
	Notifier *notify.Mailer
}

type bookingResponse struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Status  Status  `json:"status"`
	URL     string  `json:"url,omitempty"`
	Payload Booking `json:"payload"`
}

func toResponse(b Booking) bookingResponse {
	return bookingResponse{ID: b.ID, Title: b.Title, Status: b.Status, URL: b.URL, Payload: b}
}

func toResponses(bs []Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bs))
	for _, b := range bs {
		out = append(out, toResponse(b))
	}
	return out
}

// List returns the bookings for one status (?status=), or the full board
// grouped by status with counts when no status is given.
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := ParseStatus(strings.ToUpper(raw))
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid status")
			return
		}
		items, err := h.Engine.List(r.Context(), status)
		if err != nil {
			api.WriteDomainError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"items": toResponses(items)})
		return
	}

	grouped := make(map[string][]bookingResponse, len(Statuses))
	stats := make(map[string]int, len(Statuses))
	for _, status := range Statuses {
		items, err := h.Engine.List(r.Context(), status)
		if err != nil {
			api.WriteDomainError(w, err)
			return
		}
		key := strings.ToLower(string(status))
		grouped[key] = toResponses(items)
		stats[key] = len(items)
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"bookings": grouped,
		"stats":    stats,
	})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}
	b, err := h.Engine.Get(r.Context(), id)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(b))
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	var fields Booking
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	b, err := h.Engine.Create(r.Context(), fields, actor)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, toResponse(b))
}

type transitionRequest struct {
	Action string `json:"action"`
}

func (h Handlers) Transition(w http.ResponseWriter, r *http.Request) {
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

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	action, err := ParseAction(req.Action)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid action")
		return
	}

	b, err := h.Engine.Transition(r.Context(), id, action, actor)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	if action == ActionConfirm && h.Notifier != nil {
		// Best effort; a mail failure never fails the transition.
		h.Notifier.BookingConfirmed(b.Title, b.StartDate, b.EndDate)
	}

	api.WriteJSON(w, http.StatusOK, toResponse(b))
}

func (h Handlers) Archive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}
	if err := h.Engine.Archive(r.Context(), id); err != nil {
		api.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type calendarEvent struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`

	ExtendedProps map[string]string `json:"extendedProps"`
}

// Calendar returns reserved and ongoing bookings as calendar events for the
// front-end planner.
func (h Handlers) Calendar(w http.ResponseWriter, r *http.Request) {
	events := []calendarEvent{}
	for _, status := range []Status{StatusReserved, StatusOngoing} {
		items, err := h.Engine.List(r.Context(), status)
		if err != nil {
			api.WriteDomainError(w, err)
			return
		}
		for _, b := range items {
			title := b.Title
			if title == "" {
				title = "Booking " + b.ID
			}
			events = append(events, calendarEvent{
				ID:    b.ID,
				Title: title,
				Start: safeISO(b.StartDate),
				End:   safeISO(b.EndDate),
				ExtendedProps: map[string]string{
					"status":  strings.ToLower(string(status)),
					"client":  b.ClientName,
					"vehicle": b.VehicleName,
				},
			})
		}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

// safeISO normalizes the loose date formats stored in payloads
// ("2026-01-29T10:00" or "2026-01-29 10:00" or a bare date) to ISO form,
// returning "" for anything unparseable.
func safeISO(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if _, err := time.Parse(layout, s); err == nil {
			return s
		}
	}
	if t, err := time.Parse("2006-01-02 15:04", s); err == nil {
		return t.Format("2006-01-02T15:04")
	}
	return ""
}
