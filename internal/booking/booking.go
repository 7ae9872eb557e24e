// Package booking owns the rental workflow: the Booking entity, its status
// state machine, and the engine that mediates every read and write of
// booking records against the external card store.
package booking

import (
	"encoding/json"
	"strings"

	"rentalboard/internal/schema"
)

// Booking is a rental reservation. ID is assigned by the external store and
// never changes; Status is derived from the container the record lives in
// and is deliberately absent from the serialized payload.
type Booking struct {
	ID     string `json:"-"`
	Status Status `json:"-"`
	Title  string `json:"-"`
	URL    string `json:"-"`

	ClientID         string `json:"client_id,omitempty"`
	ClientName       string `json:"client_name,omitempty"`
	ClientPhone      string `json:"client_phone,omitempty"`
	ClientAddress    string `json:"client_address,omitempty"`
	ClientDocumentID string `json:"doc_id,omitempty"`
	DriverLicense    string `json:"driver_license,omitempty"`

	VehicleID    string `json:"vehicle_id,omitempty"`
	VehicleName  string `json:"vehicle_name,omitempty"`
	VehiclePlate string `json:"vehicle_plate,omitempty"`
	VehicleModel string `json:"vehicle_model,omitempty"`
	VehicleVIN   string `json:"vehicle_vin,omitempty"`

	// ISO-8601-like, no timezone guarantee; empty means unknown.
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	PickupLocation string `json:"pickup_location,omitempty"`
	ReturnLocation string `json:"return_location,omitempty"`
	Notes          string `json:"notes,omitempty"`

	Options Options `json:"options"`

	// Audit is append-only; entries are never rewritten or dropped.
	Audit []schema.AuditEntry `json:"_audit,omitempty"`
}

type Options struct {
	GPS       bool `json:"gps"`
	Chauffeur bool `json:"chauffeur"`
	BabySeat  bool `json:"baby_seat"`
}

// payloadDoc adds the type discriminator around the booking fields.
type payloadDoc struct {
	Type string `json:"_type"`
	Booking
}

// EncodePayload serializes the booking fields and audit trail for storage in
// a record's free-text payload.
func (b Booking) EncodePayload() (string, error) {
	return schema.Encode(payloadDoc{Type: schema.TypeBooking, Booking: b})
}

// ParsePayload decodes a record payload into a Booking.
//
// An empty payload is a valid empty record. A payload with a JSON object
// embedded in surrounding free text is parsed from the first balanced
// object. Anything else, including JSON without the booking type
// discriminator, is a MalformedRecordError.
func ParsePayload(raw string) (Booking, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Booking{}, nil
	}

	obj, ok := schema.ExtractObject(raw)
	if !ok {
		return Booking{}, &schema.MalformedRecordError{Reason: "payload contains no JSON object"}
	}

	var doc payloadDoc
	if err := json.Unmarshal([]byte(obj), &doc); err != nil {
		return Booking{}, &schema.MalformedRecordError{Reason: "payload is not well-formed JSON: " + err.Error()}
	}
	if doc.Type != schema.TypeBooking {
		return Booking{}, &schema.MalformedRecordError{Reason: "payload is not a booking (missing _type discriminator)"}
	}
	return doc.Booking, nil
}

// DefaultTitle builds the card title from the client and vehicle references,
// matching how the board has always been labeled.
func (b Booking) DefaultTitle() string {
	var parts []string
	for _, s := range []string{b.ClientName, b.VehicleName} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "New booking request"
	}
	return strings.Join(parts, " — ")
}
