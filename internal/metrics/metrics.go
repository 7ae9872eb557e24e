package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalboard_store_calls_total",
		Help: "Calls to the external record store, by operation",
	}, []string{"op"})

	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalboard_store_errors_total",
		Help: "Failed calls to the external record store, by operation",
	}, []string{"op"})

	BookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalboard_booking_transitions_total",
		Help: "Successful booking status transitions, by action",
	}, []string{"action"})

	RejectedTransitions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentalboard_booking_transitions_rejected_total",
		Help: "Transitions rejected by the state machine",
	})

	MalformedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentalboard_malformed_records_total",
		Help: "Records whose payload could not be parsed as the expected entity",
	})

	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalboard_webhook_events_total",
		Help: "Trello webhook deliveries, by action type",
	}, []string{"type"})

	OverdueBookings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentalboard_overdue_bookings_total",
		Help: "Ongoing bookings found past their end date by the nightly scan",
	})
)
