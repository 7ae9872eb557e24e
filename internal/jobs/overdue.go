// Package jobs holds the scheduled background scans that run against the
// board.
package jobs

import (
	"context"
	"time"

	"rentalboard/internal/booking"
	"rentalboard/internal/logger"
	"rentalboard/internal/metrics"
	"rentalboard/internal/notify"
)

// OverdueScan walks the ongoing rentals and flags the ones whose end date
// has passed without the rental being completed.
type OverdueScan struct {
	Engine   *booking.Engine
	Notifier *notify.Mailer
	Now      func() time.Time
}

func (j OverdueScan) Run(ctx context.Context) {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	today := now().UTC().Format("2006-01-02")

	ongoing, err := j.Engine.List(ctx, booking.StatusOngoing)
	if err != nil {
		logger.Error("overdue scan: listing ongoing rentals failed", "error", err)
		return
	}

	flagged := 0
	for _, b := range ongoing {
		end := b.EndDate
		if len(end) < 10 || end[:10] >= today {
			continue
		}
		flagged++
		metrics.OverdueBookings.Inc()
		logger.Warn("overdue rental",
			"booking_id", b.ID,
			"title", b.Title,
			"end_date", b.EndDate,
		)
		j.Notifier.BookingOverdue(b.Title, b.EndDate)
	}

	logger.Info("overdue scan finished", "ongoing", len(ongoing), "overdue", flagged)
}
