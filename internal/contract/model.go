// Package contract manages the editable rental contract models and their
// PDF rendering. Contracts are the one entity persisted outside the board:
// the board card carries the booking, the database carries the operator's
// edited contract text.
package contract

import (
	"time"

	"rentalboard/internal/booking"
	"rentalboard/internal/client"
	"rentalboard/internal/vehicle"
)

type Model struct {
	Meta      Meta        `json:"meta"`
	Header    Header      `json:"header"`
	Booking   BookingInfo `json:"booking"`
	Client    ClientInfo  `json:"client"`
	Vehicle   VehicleInfo `json:"vehicle"`
	BodyFR    string      `json:"body_fr"`
	BodyAR    string      `json:"body_ar"`
	ClausesFR []string    `json:"clauses_fr"`
	ClausesAR []string    `json:"clauses_ar"`
	Signature Signature   `json:"signature"`
}

type Meta struct {
	BookingID   string `json:"booking_id"`
	GeneratedAt string `json:"generated_at"`
	Version     int    `json:"version"`
}

type Header struct {
	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address"`
	CompanyPhone   string `json:"company_phone"`
	TitleFR        string `json:"title_fr"`
	TitleAR        string `json:"title_ar"`
}

type BookingInfo struct {
	Title       string   `json:"title"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Pickup      string   `json:"pickup"`
	ReturnPlace string   `json:"return_place"`
	Extras      []string `json:"extras,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

type ClientInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	DocID   string `json:"doc_id,omitempty"`
	License string `json:"license,omitempty"`
	Address string `json:"address,omitempty"`
}

type VehicleInfo struct {
	Name  string `json:"name"`
	Plate string `json:"plate,omitempty"`
	Brand string `json:"brand,omitempty"`
	Model string `json:"model,omitempty"`
	Color string `json:"color,omitempty"`
}

type Signature struct {
	Place      string `json:"place"`
	Date       string `json:"date"`
	LessorName string `json:"lessor_name"`
	LesseeName string `json:"lessee_name"`
}

// DefaultModel seeds an editable contract from the live booking and its
// resolved master data. The operator edits from here; defaults match the
// paper contract the company has always used.
func DefaultModel(b booking.Booking, c client.Client, v vehicle.Vehicle, now time.Time) Model {
	title := b.Title
	if title == "" {
		title = "Contrat de location"
	}

	clientName := c.FullName
	if clientName == "" {
		clientName = b.ClientName
	}
	vehicleName := v.Title
	if vehicleName == "" {
		vehicleName = b.VehicleName
	}

	var extras []string
	if b.Options.GPS {
		extras = append(extras, "gps")
	}
	if b.Options.Chauffeur {
		extras = append(extras, "chauffeur")
	}
	if b.Options.BabySeat {
		extras = append(extras, "baby_seat")
	}

	return Model{
		Meta: Meta{
			BookingID:   b.ID,
			GeneratedAt: now.Format("2006-01-02 15:04"),
			Version:     1,
		},
		Header: Header{
			CompanyName:    "Zohir Location Auto",
			CompanyAddress: "Alger, Algérie",
			CompanyPhone:   "+213 ....",
			TitleFR:        "CONTRAT DE LOCATION DE VÉHICULE",
			TitleAR:        "عقد كراء سيارة",
		},
		Booking: BookingInfo{
			Title:       title,
			Start:       b.StartDate,
			End:         b.EndDate,
			Pickup:      b.PickupLocation,
			ReturnPlace: b.ReturnLocation,
			Extras:      extras,
			Notes:       b.Notes,
		},
		Client: ClientInfo{
			Name:    clientName,
			Phone:   firstNonEmpty(c.Phone, b.ClientPhone),
			DocID:   firstNonEmpty(c.DocID, b.ClientDocumentID),
			License: firstNonEmpty(c.DriverLicense, b.DriverLicense),
			Address: firstNonEmpty(c.Address, b.ClientAddress),
		},
		Vehicle: VehicleInfo{
			Name:  vehicleName,
			Plate: firstNonEmpty(v.Plate, b.VehiclePlate),
			Brand: v.Brand,
			Model: firstNonEmpty(v.Model, b.VehicleModel),
			Color: v.Color,
		},
		BodyFR: "Le présent contrat définit les conditions de location du véhicule.\n" +
			"Le locataire s'engage à respecter les conditions ci-dessous.",
		BodyAR: "يحدد هذا العقد شروط وأحكام كراء السيارة.\nيلتزم المستأجر باحترام الشروط أدناه.",
		ClausesFR: []string{
			"Le locataire est responsable des infractions, amendes et dommages durant la période de location.",
			"Le véhicule doit être rendu avec le même niveau de carburant qu'au départ.",
			"Interdiction de sous-location sans accord écrit du loueur.",
		},
		ClausesAR: []string{
			"المستأجر مسؤول عن المخالفات والغرامات والأضرار خلال مدة الكراء.",
			"يجب إرجاع السيارة بنفس مستوى الوقود عند الاستلام.",
			"يمنع التأجير من الباطن دون موافقة كتابية من المؤجر.",
		},
		Signature: Signature{
			Place:      "Alger",
			Date:       now.Format("2006-01-02"),
			LessorName: "Zohir Location Auto",
			LesseeName: clientName,
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
