// Package finance tracks invoices and expenses. Invoices live on two lists
// (open and paid); marking one paid relocates the card, the same way a
// booking transition does.
package finance

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"rentalboard/internal/schema"
)

type InvoiceStatus string

const (
	InvoiceOpen InvoiceStatus = "OPEN"
	InvoicePaid InvoiceStatus = "PAID"
)

// Invoice is a billing record, optionally linked to a booking. Status is
// derived from the containing list.
type Invoice struct {
	ID     string        `json:"-"`
	Title  string        `json:"-"`
	Status InvoiceStatus `json:"-"`

	BookingID  string          `json:"booking_id,omitempty"`
	ClientName string          `json:"client_name,omitempty"`
	Total      decimal.Decimal `json:"total"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	PaidAt     string          `json:"paid_at,omitempty"`
	Notes      string          `json:"notes,omitempty"`

	Audit []schema.AuditEntry `json:"_audit,omitempty"`
}

type Expense struct {
	ID    string `json:"-"`
	Title string `json:"-"`

	Date          string          `json:"date"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Notes         string          `json:"notes,omitempty"`

	// Optional link to the vehicle record this expense belongs to.
	LinkedVehicleID string `json:"linked_vehicle_card_id,omitempty"`

	Audit []schema.AuditEntry `json:"_audit,omitempty"`
}

type invoiceDoc struct {
	Type string `json:"_type"`
	Invoice
}

type expenseDoc struct {
	Type string `json:"_type"`
	Expense
}

func (i Invoice) EncodePayload() (string, error) {
	return schema.Encode(invoiceDoc{Type: schema.TypeInvoice, Invoice: i})
}

func (e Expense) EncodePayload() (string, error) {
	return schema.Encode(expenseDoc{Type: schema.TypeExpense, Expense: e})
}

func ParseInvoicePayload(raw string) (Invoice, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Invoice{}, nil
	}
	obj, ok := schema.ExtractObject(raw)
	if !ok {
		return Invoice{}, &schema.MalformedRecordError{Reason: "payload contains no JSON object"}
	}
	var doc invoiceDoc
	if err := json.Unmarshal([]byte(obj), &doc); err != nil {
		return Invoice{}, &schema.MalformedRecordError{Reason: "payload is not well-formed JSON: " + err.Error()}
	}
	if doc.Type != schema.TypeInvoice {
		return Invoice{}, &schema.MalformedRecordError{Reason: "payload is not an invoice (missing _type discriminator)"}
	}
	return doc.Invoice, nil
}

func ParseExpensePayload(raw string) (Expense, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Expense{}, nil
	}
	obj, ok := schema.ExtractObject(raw)
	if !ok {
		return Expense{}, &schema.MalformedRecordError{Reason: "payload contains no JSON object"}
	}
	var doc expenseDoc
	if err := json.Unmarshal([]byte(obj), &doc); err != nil {
		return Expense{}, &schema.MalformedRecordError{Reason: "payload is not well-formed JSON: " + err.Error()}
	}
	if doc.Type != schema.TypeExpense {
		return Expense{}, &schema.MalformedRecordError{Reason: "payload is not an expense (missing _type discriminator)"}
	}
	return doc.Expense, nil
}

// Totals summarizes the board's financial state. All arithmetic stays in
// decimal; float drift has no place in invoices.
type Totals struct {
	Paid      decimal.Decimal `json:"paid"`
	Open      decimal.Decimal `json:"open"`
	Expenses  decimal.Decimal `json:"expenses"`
	ProfitEst decimal.Decimal `json:"profit_est"`
}

func ComputeTotals(open, paid []Invoice, expenses []Expense) Totals {
	t := Totals{
		Paid:     decimal.Zero,
		Open:     decimal.Zero,
		Expenses: decimal.Zero,
	}
	for _, inv := range paid {
		// Prefer the recorded paid amount; fall back to the invoice total
		// for older cards that never stamped one.
		amount := inv.PaidAmount
		if amount.IsZero() {
			amount = inv.Total
		}
		t.Paid = t.Paid.Add(amount)
	}
	for _, inv := range open {
		t.Open = t.Open.Add(inv.Total)
	}
	for _, e := range expenses {
		t.Expenses = t.Expenses.Add(e.Amount)
	}
	t.ProfitEst = t.Paid.Sub(t.Expenses)
	return t
}
