package finance

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// MonthReportPDF renders the end-of-month summary as a one-page PDF.
func MonthReportPDF(now time.Time, totals Totals) ([]byte, error) {
	title := fmt.Sprintf("Rapport Fin de Mois — %s", now.Format("2006-01"))
	lines := []string{
		fmt.Sprintf("Encaissements (payés): %s", totals.Paid.StringFixed(2)),
		fmt.Sprintf("A encaisser (ouverts): %s", totals.Open.StringFixed(2)),
		fmt.Sprintf("Dépenses: %s", totals.Expenses.StringFixed(2)),
		fmt.Sprintf("Bénéfice estimé: %s", totals.ProfitEst.StringFixed(2)),
		"",
		"Notes:",
		"- Ce rapport est basé sur les cartes du board (factures payées/ouvertes + dépenses).",
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range lines {
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render month report: %w", err)
	}
	return buf.Bytes(), nil
}
