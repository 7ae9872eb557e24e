package booking

import (
	"context"
	"errors"
	"strings"

	"rentalboard/internal/logger"
	"rentalboard/internal/metrics"
	"rentalboard/internal/schema"
	"rentalboard/internal/store"
)

const (
	auditActionCreate = "booking_create"
)

// Engine maintains the booking state machine and mediates all reads and
// writes of booking records against the external store. Every successful
// mutation performs exactly one external write and appends exactly one
// audit record.
type Engine struct {
	store      store.Store
	containers Containers
}

func NewEngine(st store.Store, containers Containers) *Engine {
	return &Engine{store: st, containers: containers}
}

// Create validates the fields, constructs a REQUESTED booking, and writes it
// to the external store. At least one client reference (name or id) and one
// vehicle reference are required.
func (e *Engine) Create(ctx context.Context, fields Booking, actor schema.Actor) (Booking, error) {
	if strings.TrimSpace(fields.ClientName) == "" && strings.TrimSpace(fields.ClientID) == "" {
		return Booking{}, &schema.ValidationError{Msg: "missing client reference (client_name or client_id)"}
	}
	if strings.TrimSpace(fields.VehicleName) == "" && strings.TrimSpace(fields.VehicleID) == "" {
		return Booking{}, &schema.ValidationError{Msg: "missing vehicle reference (vehicle_name or vehicle_id)"}
	}

	b := fields
	b.ID = ""
	b.Status = StatusRequested
	b.Audit = append(b.Audit, schema.NewAuditEntry(actor, auditActionCreate, map[string]string{
		"client_name":  b.ClientName,
		"vehicle_name": b.VehicleName,
	}))

	payload, err := b.EncodePayload()
	if err != nil {
		return Booking{}, err
	}

	title := b.DefaultTitle()
	rec, err := e.store.CreateRecord(ctx, e.containers.ContainerFor(StatusRequested), title, payload)
	if err != nil {
		return Booking{}, err
	}

	b.ID = rec.ID
	b.Title = title
	b.URL = rec.URL
	logger.Info("booking created", "id", b.ID, "client", b.ClientName, "vehicle", b.VehicleName)
	return b, nil
}

// Get fetches a booking by id. A record in a list outside the workflow
// mapping, or with an unparseable payload, is a MalformedRecordError; the
// engine never fabricates a blank booking in its place.
func (e *Engine) Get(ctx context.Context, id string) (Booking, error) {
	rec, err := e.store.GetRecord(ctx, id)
	if err != nil {
		return Booking{}, err
	}

	status, ok := e.containers.StatusOf(rec.ContainerID)
	if !ok {
		metrics.MalformedRecords.Inc()
		return Booking{}, &schema.MalformedRecordError{RecordID: id, Reason: "record outside managed containers"}
	}

	b, err := ParsePayload(rec.Payload)
	if err != nil {
		var malformed *schema.MalformedRecordError
		if errors.As(err, &malformed) {
			metrics.MalformedRecords.Inc()
			malformed.RecordID = id
		}
		return Booking{}, err
	}

	b.ID = rec.ID
	b.Status = status
	b.Title = rec.Title
	b.URL = rec.URL
	return b, nil
}

// List returns the bookings currently in the container for the given status,
// in the store's native ordering. Records that do not parse as bookings are
// skipped with a warning rather than failing the whole listing; the strict
// single-record path is Get.
func (e *Engine) List(ctx context.Context, status Status) ([]Booking, error) {
	records, err := e.store.ListRecords(ctx, e.containers.ContainerFor(status))
	if err != nil {
		return nil, err
	}

	out := make([]Booking, 0, len(records))
	for _, rec := range records {
		b, err := ParsePayload(rec.Payload)
		if err != nil {
			metrics.MalformedRecords.Inc()
			logger.Warn("skipping unparseable record in listing", "id", rec.ID, "status", status, "error", err)
			continue
		}
		b.ID = rec.ID
		b.Status = status
		b.Title = rec.Title
		b.URL = rec.URL
		out = append(out, b)
	}
	return out, nil
}

// Transition applies an action to a booking. The move to the new container
// and the audit append land in one external write; a rejected transition
// performs no write at all.
func (e *Engine) Transition(ctx context.Context, id string, action Action, actor schema.Actor) (Booking, error) {
	b, err := e.Get(ctx, id)
	if err != nil {
		return Booking{}, err
	}

	next, err := Apply(b.Status, action)
	if err != nil {
		metrics.RejectedTransitions.Inc()
		return Booking{}, err
	}

	from := b.Status
	b.Audit = append(b.Audit, schema.NewAuditEntry(actor, string(action), map[string]string{
		"from_status": string(from),
		"to_status":   string(next),
	}))

	payload, err := b.EncodePayload()
	if err != nil {
		return Booking{}, err
	}
	if err := e.store.MoveRecord(ctx, id, e.containers.ContainerFor(next), payload); err != nil {
		return Booking{}, err
	}

	b.Status = next
	metrics.BookingTransitions.WithLabelValues(string(action)).Inc()
	logger.Info("booking transitioned", "id", id, "action", action, "from", from, "to", next, "actor", actor.Name)
	return b, nil
}

// Archive closes the external record without deleting it. Idempotent:
// archiving an already-archived record is a no-op.
func (e *Engine) Archive(ctx context.Context, id string) error {
	return e.store.ArchiveRecord(ctx, id)
}

// AttachContract uploads a rendered contract PDF onto the booking's record.
func (e *Engine) AttachContract(ctx context.Context, id, filename string, pdf []byte) error {
	return e.store.AttachFile(ctx, id, filename, pdf)
}
