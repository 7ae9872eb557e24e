// Package client holds the renter master data kept on its own board list.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"rentalboard/internal/logger"
	"rentalboard/internal/metrics"
	"rentalboard/internal/schema"
	"rentalboard/internal/store"
)

type Client struct {
	ID    string `json:"-"`
	Title string `json:"-"`

	FullName      string `json:"full_name"`
	Phone         string `json:"phone,omitempty"`
	DocID         string `json:"doc_id,omitempty"`
	DriverLicense string `json:"driver_license,omitempty"`
	Address       string `json:"address,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Blacklisted   bool   `json:"blacklisted"`

	Audit []schema.AuditEntry `json:"_audit,omitempty"`
}

type payloadDoc struct {
	Type string `json:"_type"`
	Client
}

func (c Client) EncodePayload() (string, error) {
	return schema.Encode(payloadDoc{Type: schema.TypeClient, Client: c})
}

func ParsePayload(raw string) (Client, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Client{}, nil
	}
	obj, ok := schema.ExtractObject(raw)
	if !ok {
		return Client{}, &schema.MalformedRecordError{Reason: "payload contains no JSON object"}
	}
	var doc payloadDoc
	if err := json.Unmarshal([]byte(obj), &doc); err != nil {
		return Client{}, &schema.MalformedRecordError{Reason: "payload is not well-formed JSON: " + err.Error()}
	}
	if doc.Type != schema.TypeClient {
		return Client{}, &schema.MalformedRecordError{Reason: "payload is not a client (missing _type discriminator)"}
	}
	return doc.Client, nil
}

// Repository reads and writes client records in the clients container.
type Repository struct {
	Store       store.Store
	ContainerID string
}

func (r *Repository) List(ctx context.Context) ([]Client, error) {
	records, err := r.Store.ListRecords(ctx, r.ContainerID)
	if err != nil {
		return nil, err
	}
	out := make([]Client, 0, len(records))
	for _, rec := range records {
		c, err := ParsePayload(rec.Payload)
		if err != nil {
			metrics.MalformedRecords.Inc()
			logger.Warn("skipping unparseable client record", "id", rec.ID, "error", err)
			continue
		}
		c.ID = rec.ID
		c.Title = rec.Title
		out = append(out, c)
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, id string) (Client, error) {
	rec, err := r.Store.GetRecord(ctx, id)
	if err != nil {
		return Client{}, err
	}
	c, err := ParsePayload(rec.Payload)
	if err != nil {
		var malformed *schema.MalformedRecordError
		if errors.As(err, &malformed) {
			metrics.MalformedRecords.Inc()
			malformed.RecordID = id
		}
		return Client{}, err
	}
	c.ID = rec.ID
	c.Title = rec.Title
	return c, nil
}

func (r *Repository) Create(ctx context.Context, c Client, actor schema.Actor) (Client, error) {
	c.ID = ""
	c.Audit = append(c.Audit, schema.NewAuditEntry(actor, "client_create", map[string]string{
		"full_name": c.FullName,
	}))
	payload, err := c.EncodePayload()
	if err != nil {
		return Client{}, err
	}
	rec, err := r.Store.CreateRecord(ctx, r.ContainerID, c.FullName, payload)
	if err != nil {
		return Client{}, err
	}
	c.ID = rec.ID
	c.Title = c.FullName
	return c, nil
}
