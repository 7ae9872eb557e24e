package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentalboard/internal/logger"
	"rentalboard/internal/metrics"
	"rentalboard/internal/schema"
	"rentalboard/internal/store"
)

// Containers holds the three finance list ids.
type Containers struct {
	InvoicesOpen string
	InvoicesPaid string
	Expenses     string
}

type Repository struct {
	Store      store.Store
	Containers Containers
}

func (r *Repository) invoiceContainer(status InvoiceStatus) string {
	if status == InvoicePaid {
		return r.Containers.InvoicesPaid
	}
	return r.Containers.InvoicesOpen
}

func (r *Repository) ListInvoices(ctx context.Context, status InvoiceStatus) ([]Invoice, error) {
	records, err := r.Store.ListRecords(ctx, r.invoiceContainer(status))
	if err != nil {
		return nil, err
	}
	out := make([]Invoice, 0, len(records))
	for _, rec := range records {
		inv, err := ParseInvoicePayload(rec.Payload)
		if err != nil {
			metrics.MalformedRecords.Inc()
			logger.Warn("skipping unparseable invoice record", "id", rec.ID, "error", err)
			continue
		}
		inv.ID = rec.ID
		inv.Title = rec.Title
		inv.Status = status
		out = append(out, inv)
	}
	return out, nil
}

func (r *Repository) ListExpenses(ctx context.Context) ([]Expense, error) {
	records, err := r.Store.ListRecords(ctx, r.Containers.Expenses)
	if err != nil {
		return nil, err
	}
	out := make([]Expense, 0, len(records))
	for _, rec := range records {
		e, err := ParseExpensePayload(rec.Payload)
		if err != nil {
			metrics.MalformedRecords.Inc()
			logger.Warn("skipping unparseable expense record", "id", rec.ID, "error", err)
			continue
		}
		e.ID = rec.ID
		e.Title = rec.Title
		out = append(out, e)
	}
	return out, nil
}

func (r *Repository) CreateInvoice(ctx context.Context, inv Invoice, actor schema.Actor) (Invoice, error) {
	inv.ID = ""
	inv.Status = InvoiceOpen
	inv.Audit = append(inv.Audit, schema.NewAuditEntry(actor, "invoice_create", map[string]string{
		"total": inv.Total.String(),
	}))
	payload, err := inv.EncodePayload()
	if err != nil {
		return Invoice{}, err
	}
	title := inv.Title
	if title == "" {
		title = fmt.Sprintf("%s — %s", inv.ClientName, inv.Total.StringFixed(2))
	}
	rec, err := r.Store.CreateRecord(ctx, r.Containers.InvoicesOpen, title, payload)
	if err != nil {
		return Invoice{}, err
	}
	inv.ID = rec.ID
	inv.Title = title
	return inv, nil
}

func (r *Repository) CreateExpense(ctx context.Context, e Expense, actor schema.Actor) (Expense, error) {
	e.ID = ""
	e.Audit = append(e.Audit, schema.NewAuditEntry(actor, "expense_create", map[string]string{
		"amount":   e.Amount.String(),
		"category": e.Category,
	}))
	payload, err := e.EncodePayload()
	if err != nil {
		return Expense{}, err
	}
	title := fmt.Sprintf("%s — %s — %s", e.Date, e.Category, e.Amount.StringFixed(2))
	rec, err := r.Store.CreateRecord(ctx, r.Containers.Expenses, title, payload)
	if err != nil {
		return Expense{}, err
	}
	e.ID = rec.ID
	e.Title = title
	return e, nil
}

// MarkInvoicePaid stamps the paid amount and relocates the card to the paid
// list in one external write.
func (r *Repository) MarkInvoicePaid(ctx context.Context, id string, actor schema.Actor) (Invoice, error) {
	rec, err := r.Store.GetRecord(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	inv, err := ParseInvoicePayload(rec.Payload)
	if err != nil {
		var malformed *schema.MalformedRecordError
		if errors.As(err, &malformed) {
			metrics.MalformedRecords.Inc()
			malformed.RecordID = id
		}
		return Invoice{}, err
	}

	if rec.ContainerID == r.Containers.InvoicesPaid {
		// Already paid; nothing to do.
		inv.ID = rec.ID
		inv.Title = rec.Title
		inv.Status = InvoicePaid
		return inv, nil
	}

	if inv.PaidAmount.IsZero() {
		inv.PaidAmount = inv.Total
	}
	inv.PaidAt = time.Now().UTC().Format("2006-01-02")
	inv.Audit = append(inv.Audit, schema.NewAuditEntry(actor, "invoice_paid", map[string]string{
		"paid_amount": inv.PaidAmount.String(),
	}))

	payload, err := inv.EncodePayload()
	if err != nil {
		return Invoice{}, err
	}
	if err := r.Store.MoveRecord(ctx, id, r.Containers.InvoicesPaid, payload); err != nil {
		return Invoice{}, err
	}

	inv.ID = rec.ID
	inv.Title = rec.Title
	inv.Status = InvoicePaid
	return inv, nil
}
