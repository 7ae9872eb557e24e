// Package dashboard aggregates board-wide counts and finance totals for the
// operator's landing page.
package dashboard

import (
	"net/http"
	"strings"
	"time"

	"rentalboard/internal/api"
	"rentalboard/internal/booking"
	"rentalboard/internal/client"
	"rentalboard/internal/finance"
	"rentalboard/internal/logger"
	"rentalboard/internal/vehicle"
)

type Handlers struct {
	Engine   *booking.Engine
	Clients  *client.Repository
	Vehicles *vehicle.Repository
	Finance  *finance.Repository
}

// Summary fans out across every managed list and returns counts plus money
// totals. A failing section is zeroed and logged rather than failing the
// whole page; the board is still the source of truth for details.
func (h Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bookings := map[string]int{}
	overdue := 0
	today := time.Now().UTC().Format("2006-01-02")
	for _, status := range booking.Statuses {
		items, err := h.Engine.List(ctx, status)
		if err != nil {
			logger.Warn("dashboard: booking list failed", "status", status, "error", err)
			continue
		}
		bookings[strings.ToLower(string(status))] = len(items)
		if status == booking.StatusOngoing {
			for _, b := range items {
				if end := b.EndDate; len(end) >= 10 && end[:10] < today {
					overdue++
				}
			}
		}
	}

	clients, err := h.Clients.List(ctx)
	if err != nil {
		logger.Warn("dashboard: client list failed", "error", err)
	}
	vehicles, err := h.Vehicles.List(ctx)
	if err != nil {
		logger.Warn("dashboard: vehicle list failed", "error", err)
	}
	vehiclesByStatus := map[string]int{}
	for _, v := range vehicles {
		vehiclesByStatus[strings.ToLower(string(v.Status))]++
	}

	open, err := h.Finance.ListInvoices(ctx, finance.InvoiceOpen)
	if err != nil {
		logger.Warn("dashboard: open invoice list failed", "error", err)
	}
	paid, err := h.Finance.ListInvoices(ctx, finance.InvoicePaid)
	if err != nil {
		logger.Warn("dashboard: paid invoice list failed", "error", err)
	}
	expenses, err := h.Finance.ListExpenses(ctx)
	if err != nil {
		logger.Warn("dashboard: expense list failed", "error", err)
	}
	totals := finance.ComputeTotals(open, paid, expenses)

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"bookings":        bookings,
		"overdue_ongoing": overdue,
		"clients":         len(clients),
		"vehicles": map[string]any{
			"total":     len(vehicles),
			"by_status": vehiclesByStatus,
		},
		"invoices": map[string]int{
			"open": len(open),
			"paid": len(paid),
		},
		"expenses": len(expenses),
		"totals":   totals,
	})
}
