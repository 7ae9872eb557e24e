package contract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// RenderPDF lays out the contract model as a printable A4 document. Arabic
// text blocks are kept as-is; the core fpdf fonts cannot shape them, so the
// operator prints the French body and staples the Arabic original when
// needed.
func RenderPDF(m Model) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(m.Header.CompanyName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr(m.Header.CompanyAddress+" — "+m.Header.CompanyPhone), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr(m.Header.TitleFR), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Réf. %s — version %d — généré le %s",
		m.Meta.BookingID, m.Meta.Version, m.Meta.GeneratedAt)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, tr(title), "B", 1, "L", false, 0, "")
		pdf.Ln(1)
		pdf.SetFont("Helvetica", "", 10)
	}
	row := func(label, value string) {
		if value == "" {
			return
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, tr(value), "", "L", false)
	}

	section("Location")
	row("Réservation", m.Booking.Title)
	row("Du", m.Booking.Start)
	row("Au", m.Booking.End)
	row("Lieu de départ", m.Booking.Pickup)
	row("Lieu de retour", m.Booking.ReturnPlace)
	row("Options", strings.Join(m.Booking.Extras, ", "))
	row("Remarques", m.Booking.Notes)
	pdf.Ln(3)

	section("Locataire")
	row("Nom", m.Client.Name)
	row("Téléphone", m.Client.Phone)
	row("Pièce d'identité", m.Client.DocID)
	row("Permis de conduire", m.Client.License)
	row("Adresse", m.Client.Address)
	pdf.Ln(3)

	section("Véhicule")
	row("Véhicule", m.Vehicle.Name)
	row("Immatriculation", m.Vehicle.Plate)
	row("Marque / Modèle", strings.TrimSpace(m.Vehicle.Brand+" "+m.Vehicle.Model))
	row("Couleur", m.Vehicle.Color)
	pdf.Ln(3)

	if m.BodyFR != "" {
		section("Conditions")
		pdf.MultiCell(0, 5, tr(m.BodyFR), "", "L", false)
		pdf.Ln(2)
	}
	for i, clause := range m.ClausesFR {
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("%d. %s", i+1, clause)), "", "L", false)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Fait à %s, le %s", m.Signature.Place, m.Signature.Date)), "", 1, "L", false, 0, "")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(95, 6, tr("Le loueur : "+m.Signature.LessorName), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Le locataire : "+m.Signature.LesseeName), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render contract pdf: %w", err)
	}
	return buf.Bytes(), nil
}
