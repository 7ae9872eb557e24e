package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalboard/internal/booking"
	"rentalboard/internal/client"
	"rentalboard/internal/vehicle"
)

func TestDefaultModel_PrefersMasterData(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	b := booking.Booking{
		ID:          "card001",
		Title:       "Amel B. — Clio 5",
		ClientName:  "Amel",
		ClientPhone: "+213 000",
		VehicleName: "Clio",
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-05",
		Options:     booking.Options{GPS: true, BabySeat: true},
	}
	c := client.Client{FullName: "Amel Benali", Phone: "+213 555 00 11", DocID: "AB12345"}
	v := vehicle.Vehicle{Title: "123-45-16 — Renault Clio 5", Plate: "123-45-16", Brand: "Renault", Model: "Clio 5"}

	m := DefaultModel(b, c, v, now)

	assert.Equal(t, "card001", m.Meta.BookingID)
	assert.Equal(t, 1, m.Meta.Version)
	assert.Equal(t, "2026-08-20 10:30", m.Meta.GeneratedAt)

	// master data wins over the denormalized booking copy
	assert.Equal(t, "Amel Benali", m.Client.Name)
	assert.Equal(t, "+213 555 00 11", m.Client.Phone)
	assert.Equal(t, "123-45-16", m.Vehicle.Plate)

	assert.Equal(t, []string{"gps", "baby_seat"}, m.Booking.Extras)
	assert.Equal(t, "Amel Benali", m.Signature.LesseeName)
}

func TestDefaultModel_FallsBackToBookingFields(t *testing.T) {
	b := booking.Booking{
		ClientName:   "Amel",
		ClientPhone:  "+213 000",
		VehicleName:  "Clio",
		VehiclePlate: "999-99-31",
	}

	m := DefaultModel(b, client.Client{}, vehicle.Vehicle{}, time.Now())

	assert.Equal(t, "Amel", m.Client.Name)
	assert.Equal(t, "+213 000", m.Client.Phone)
	assert.Equal(t, "Clio", m.Vehicle.Name)
	assert.Equal(t, "999-99-31", m.Vehicle.Plate)
}

func TestRenderPDF(t *testing.T) {
	m := DefaultModel(booking.Booking{
		ID:          "card001",
		ClientName:  "Amel Benali",
		VehicleName: "Clio 5",
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-05",
	}, client.Client{}, vehicle.Vehicle{}, time.Now())

	pdf, err := RenderPDF(m)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
