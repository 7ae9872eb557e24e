package contract

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rentalboard/internal/api"
	"rentalboard/internal/booking"
	"rentalboard/internal/client"
	"rentalboard/internal/logger"
	"rentalboard/internal/schema"
	"rentalboard/internal/vehicle"
)

type Handlers struct {
	Engine    *booking.Engine
	Clients   *client.Repository
	Vehicles  *vehicle.Repository
	Contracts *Repository
	Now       func() time.Time
}

func (h Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// modelFor returns the stored contract model, seeding and persisting a
// default one from the live booking on first access.
func (h Handlers) modelFor(r *http.Request, bookingID string) (Model, error) {
	ctx := r.Context()

	if m, err := h.Contracts.Get(ctx, bookingID); err != nil {
		return Model{}, err
	} else if m != nil {
		return *m, nil
	}

	b, err := h.Engine.Get(ctx, bookingID)
	if err != nil {
		return Model{}, err
	}

	var c client.Client
	if b.ClientID != "" {
		if c, err = h.Clients.Get(ctx, b.ClientID); err != nil {
			logger.Warn("contract: client lookup failed", "client_id", b.ClientID, "error", err)
			c = client.Client{}
		}
	}
	var v vehicle.Vehicle
	if b.VehicleID != "" {
		if v, err = h.Vehicles.Get(ctx, b.VehicleID); err != nil {
			logger.Warn("contract: vehicle lookup failed", "vehicle_id", b.VehicleID, "error", err)
			v = vehicle.Vehicle{}
		}
	}

	m := DefaultModel(b, c, v, h.now())
	if err := h.Contracts.Save(ctx, bookingID, m); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.modelFor(r, chi.URLParam(r, "id"))
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, m)
}

func (h Handlers) Save(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var m Model
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid JSON body")
		return
	}

	prev, err := h.Contracts.Get(r.Context(), id)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	m.Meta.BookingID = id
	m.Meta.GeneratedAt = h.now().Format("2006-01-02 15:04")
	m.Meta.Version = 1
	if prev != nil {
		m.Meta.Version = prev.Meta.Version + 1
	}

	if err := h.Contracts.Save(r.Context(), id, m); err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, m)
}

func (h Handlers) PDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, err := h.modelFor(r, id)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	pdf, err := RenderPDF(m)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "contrat_"+id+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// StartWithContract renders the current contract, attaches it to the booking
// record, then transitions the booking into its rental. The transition is
// validated first so an illegal start never leaves an attachment behind; a
// store failure after attach is reported as-is with no rollback.
func (h Handlers) StartWithContract(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	b, err := h.Engine.Get(ctx, id)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	if _, err := booking.Apply(b.Status, booking.ActionStartRental); err != nil {
		api.WriteDomainError(w, err)
		return
	}

	m, err := h.modelFor(r, id)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	pdf, err := RenderPDF(m)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	if err := h.Engine.AttachContract(ctx, id, "contrat_"+id+".pdf", pdf); err != nil {
		api.WriteDomainError(w, err)
		return
	}

	actor, _ := api.ActorFromContext(ctx)
	if actor.Role == "" {
		actor = schema.Actor{Role: "system", Name: "contract"}
	}
	b, err = h.Engine.Transition(ctx, id, booking.ActionStartRental, actor)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"id":     b.ID,
		"status": b.Status,
		"title":  b.Title,
	})
}
