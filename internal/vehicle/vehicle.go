// Package vehicle holds the fleet master data kept on its own board list.
package vehicle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"rentalboard/internal/logger"
	"rentalboard/internal/metrics"
	"rentalboard/internal/schema"
	"rentalboard/internal/store"
)

type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusRented      Status = "RENTED"
	StatusMaintenance Status = "MAINTENANCE"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable, StatusRented, StatusMaintenance:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown vehicle status: %s", s)
	}
}

type Vehicle struct {
	ID    string `json:"-"`
	Title string `json:"-"`

	Plate string `json:"plate"`
	Brand string `json:"brand,omitempty"`
	Model string `json:"model,omitempty"`
	Year  *int   `json:"year,omitempty"`
	Color string `json:"color,omitempty"`
	KM    int    `json:"km"`

	Status Status `json:"status"`

	InsuranceExpiry        string `json:"insurance_expiry,omitempty"`
	TechnicalControlExpiry string `json:"technical_control_expiry,omitempty"`
	Notes                  string `json:"notes,omitempty"`

	Audit []schema.AuditEntry `json:"_audit,omitempty"`
}

type payloadDoc struct {
	Type string `json:"_type"`
	Vehicle
}

func (v Vehicle) EncodePayload() (string, error) {
	return schema.Encode(payloadDoc{Type: schema.TypeVehicle, Vehicle: v})
}

func ParsePayload(raw string) (Vehicle, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Vehicle{}, nil
	}
	obj, ok := schema.ExtractObject(raw)
	if !ok {
		return Vehicle{}, &schema.MalformedRecordError{Reason: "payload contains no JSON object"}
	}
	var doc payloadDoc
	if err := json.Unmarshal([]byte(obj), &doc); err != nil {
		return Vehicle{}, &schema.MalformedRecordError{Reason: "payload is not well-formed JSON: " + err.Error()}
	}
	if doc.Type != schema.TypeVehicle {
		return Vehicle{}, &schema.MalformedRecordError{Reason: "payload is not a vehicle (missing _type discriminator)"}
	}
	return doc.Vehicle, nil
}

func (v Vehicle) DefaultTitle() string {
	brandModel := strings.TrimSpace(v.Brand + " " + v.Model)
	if brandModel == "" {
		return v.Plate
	}
	return strings.TrimSpace(v.Plate + " — " + brandModel)
}

type Repository struct {
	Store       store.Store
	ContainerID string
}

func (r *Repository) List(ctx context.Context) ([]Vehicle, error) {
	records, err := r.Store.ListRecords(ctx, r.ContainerID)
	if err != nil {
		return nil, err
	}
	out := make([]Vehicle, 0, len(records))
	for _, rec := range records {
		v, err := ParsePayload(rec.Payload)
		if err != nil {
			metrics.MalformedRecords.Inc()
			logger.Warn("skipping unparseable vehicle record", "id", rec.ID, "error", err)
			continue
		}
		v.ID = rec.ID
		v.Title = rec.Title
		out = append(out, v)
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, id string) (Vehicle, error) {
	rec, err := r.Store.GetRecord(ctx, id)
	if err != nil {
		return Vehicle{}, err
	}
	v, err := ParsePayload(rec.Payload)
	if err != nil {
		var malformed *schema.MalformedRecordError
		if errors.As(err, &malformed) {
			metrics.MalformedRecords.Inc()
			malformed.RecordID = id
		}
		return Vehicle{}, err
	}
	v.ID = rec.ID
	v.Title = rec.Title
	return v, nil
}

func (r *Repository) Create(ctx context.Context, v Vehicle, actor schema.Actor) (Vehicle, error) {
	v.ID = ""
	if v.Status == "" {
		v.Status = StatusAvailable
	}
	v.Audit = append(v.Audit, schema.NewAuditEntry(actor, "vehicle_create", map[string]string{
		"plate": v.Plate,
	}))
	payload, err := v.EncodePayload()
	if err != nil {
		return Vehicle{}, err
	}
	title := v.DefaultTitle()
	rec, err := r.Store.CreateRecord(ctx, r.ContainerID, title, payload)
	if err != nil {
		return Vehicle{}, err
	}
	v.ID = rec.ID
	v.Title = title
	return v, nil
}

// SetStatus updates the availability flag in place (one external write with
// its audit entry).
func (r *Repository) SetStatus(ctx context.Context, id string, next Status, actor schema.Actor) (Vehicle, error) {
	v, err := r.Get(ctx, id)
	if err != nil {
		return Vehicle{}, err
	}

	from := v.Status
	v.Status = next
	v.Audit = append(v.Audit, schema.NewAuditEntry(actor, "vehicle_status", map[string]string{
		"from_status": string(from),
		"to_status":   string(next),
	}))

	payload, err := v.EncodePayload()
	if err != nil {
		return Vehicle{}, err
	}
	if err := r.Store.UpdateRecord(ctx, id, payload); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}
