package finance

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rentalboard/internal/api"
)

type Handlers struct {
	Repo *Repository
}

type invoiceResponse struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Status  InvoiceStatus `json:"status"`
	Payload Invoice       `json:"payload"`
}

type expenseResponse struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Payload Expense `json:"payload"`
}

// Summary returns open/paid invoices, expenses, and the computed totals.
func (h Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	open, err := h.Repo.ListInvoices(r.Context(), InvoiceOpen)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	paid, err := h.Repo.ListInvoices(r.Context(), InvoicePaid)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	expenses, err := h.Repo.ListExpenses(r.Context())
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	toInvoices := func(items []Invoice) []invoiceResponse {
		out := make([]invoiceResponse, 0, len(items))
		for _, inv := range items {
			out = append(out, invoiceResponse{ID: inv.ID, Title: inv.Title, Status: inv.Status, Payload: inv})
		}
		return out
	}
	expensesOut := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		expensesOut = append(expensesOut, expenseResponse{ID: e.ID, Title: e.Title, Payload: e})
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"invoices_open": toInvoices(open),
		"invoices_paid": toInvoices(paid),
		"expenses":      expensesOut,
		"totals":        ComputeTotals(open, paid, expenses),
	})
}

func (h Handlers) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	var inv Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if inv.Total.IsNegative() {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "total must not be negative")
		return
	}

	created, err := h.Repo.CreateInvoice(r.Context(), inv, actor)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, invoiceResponse{ID: created.ID, Title: created.Title, Status: created.Status, Payload: created})
}

func (h Handlers) PayInvoice(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	inv, err := h.Repo.MarkInvoicePaid(r.Context(), id, actor)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, invoiceResponse{ID: inv.ID, Title: inv.Title, Status: inv.Status, Payload: inv})
}

func (h Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	var e Expense
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if e.Category == "" {
		e.Category = "fuel"
	}
	if e.PaymentMethod == "" {
		e.PaymentMethod = "cash"
	}

	created, err := h.Repo.CreateExpense(r.Context(), e, actor)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, expenseResponse{ID: created.ID, Title: created.Title, Payload: created})
}

// MonthReport streams the end-of-month PDF.
func (h Handlers) MonthReport(w http.ResponseWriter, r *http.Request) {
	open, err := h.Repo.ListInvoices(r.Context(), InvoiceOpen)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	paid, err := h.Repo.ListInvoices(r.Context(), InvoicePaid)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	expenses, err := h.Repo.ListExpenses(r.Context())
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	pdf, err := MonthReportPDF(time.Now(), ComputeTotals(open, paid, expenses))
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to render report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "rapport_fin_de_mois.pdf"))
	_, _ = w.Write(pdf)
}
