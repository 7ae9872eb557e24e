package booking

import (
	"errors"
	"testing"

	"rentalboard/internal/schema"
)

func TestPayloadRoundTrip(t *testing.T) {
	in := Booking{
		ClientName:  "Amel B.",
		ClientPhone: "+213 555 00 11",
		VehicleName: "Clio 5",
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-05",
		Options:     Options{GPS: true},
		Audit: []schema.AuditEntry{
			schema.NewAuditEntry(schema.Actor{Role: "agent", Name: "Sara"}, "booking_create", nil),
		},
	}

	raw, err := in.EncodePayload()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := ParsePayload(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if out.ClientName != in.ClientName || out.VehicleName != in.VehicleName {
		t.Fatalf("round trip lost references: %+v", out)
	}
	if out.StartDate != in.StartDate || out.EndDate != in.EndDate {
		t.Fatalf("round trip lost dates: %+v", out)
	}
	if !out.Options.GPS || out.Options.Chauffeur {
		t.Fatalf("round trip lost options: %+v", out.Options)
	}
	if len(out.Audit) != 1 || out.Audit[0].Action != "booking_create" {
		t.Fatalf("round trip lost audit trail: %+v", out.Audit)
	}
}

func TestParsePayload_EmptyIsEmptyBooking(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		b, err := ParsePayload(raw)
		if err != nil {
			t.Fatalf("empty payload %q: unexpected error: %v", raw, err)
		}
		if b.ClientName != "" || len(b.Audit) != 0 {
			t.Fatalf("empty payload should decode to zero booking, got %+v", b)
		}
	}
}

func TestParsePayload_ObjectEmbeddedInFreeText(t *testing.T) {
	raw := "Agent note: call back before pickup.\n" +
		`{"_type": "booking", "client_name": "Amel B.", "notes": "has {braces} inside"}` +
		"\ntrailing remark"
	b, err := ParsePayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ClientName != "Amel B." {
		t.Fatalf("expected embedded object parsed, got %+v", b)
	}
	if b.Notes != "has {braces} inside" {
		t.Fatalf("string braces mishandled: %q", b.Notes)
	}
}

func TestParsePayload_Malformed(t *testing.T) {
	cases := []string{
		"this is not structured data",
		`{"_type": "booking", "client_name": `,
		`{"client_name": "no discriminator"}`,
		`{"_type": "vehicle", "plate": "123"}`,
	}
	for _, raw := range cases {
		_, err := ParsePayload(raw)
		var malformed *schema.MalformedRecordError
		if !errors.As(err, &malformed) {
			t.Fatalf("payload %q: expected MalformedRecordError, got %v", raw, err)
		}
	}
}

func TestDefaultTitle(t *testing.T) {
	b := Booking{ClientName: "Amel B.", VehicleName: "Clio 5"}
	if got := b.DefaultTitle(); got != "Amel B. — Clio 5" {
		t.Fatalf("unexpected title: %q", got)
	}
	if got := (Booking{}).DefaultTitle(); got != "New booking request" {
		t.Fatalf("unexpected fallback title: %q", got)
	}
	if got := (Booking{VehicleName: "Clio 5"}).DefaultTitle(); got != "Clio 5" {
		t.Fatalf("unexpected partial title: %q", got)
	}
}
