// Package httpapi assembles the HTTP surface: routing, middleware, and the
// wiring of handlers onto the shared store and database.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rentalboard/internal/api"
	"rentalboard/internal/auth"
	"rentalboard/internal/booking"
	"rentalboard/internal/client"
	"rentalboard/internal/contract"
	"rentalboard/internal/dashboard"
	"rentalboard/internal/finance"
	"rentalboard/internal/notify"
	"rentalboard/internal/store"
	"rentalboard/internal/vehicle"
	"rentalboard/internal/webhook"
	"rentalboard/pkg/config"
)

// Containers carries the resolved list IDs for every managed list on the
// board. Names come from config; IDs are resolved once at startup.
type Containers struct {
	Bookings booking.Containers
	Clients  string
	Vehicles string
	Finance  finance.Containers
}

type Dependencies struct {
	Cfg        config.Config
	DB         *pgxpool.Pool // nil disables contract storage
	Store      store.Store
	Containers Containers
	Notifier   *notify.Mailer
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	engine := booking.NewEngine(deps.Store, deps.Containers.Bookings)
	bookingHandlers := booking.Handlers{Engine: engine, Notifier: deps.Notifier}
	clientRepo := &client.Repository{Store: deps.Store, ContainerID: deps.Containers.Clients}
	clientHandlers := client.Handlers{Repo: clientRepo}
	vehicleRepo := &vehicle.Repository{Store: deps.Store, ContainerID: deps.Containers.Vehicles}
	vehicleHandlers := vehicle.Handlers{Repo: vehicleRepo}
	financeRepo := &finance.Repository{Store: deps.Store, Containers: deps.Containers.Finance}
	financeHandlers := finance.Handlers{Repo: financeRepo}
	authHandlers := auth.Handlers{Cfg: deps.Cfg}
	dashboardHandlers := dashboard.Handlers{
		Engine:   engine,
		Clients:  clientRepo,
		Vehicles: vehicleRepo,
		Finance:  financeRepo,
	}
	webhookHandler := webhook.Handler{
		Secret:      deps.Cfg.Trello.WebhookSecret,
		CallbackURL: deps.Cfg.Trello.PublicBaseURL + "/v1/webhooks/trello",
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins: deps.Cfg.AllowedOrigins,
		}))

		r.Post("/auth/login", authHandlers.Login)

		// Board change callbacks; registration probes arrive as HEAD.
		r.Post("/webhooks/trello", webhookHandler.Receive)
		r.Head("/webhooks/trello", webhookHandler.Receive)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSession(deps.Cfg.Auth.SessionSecret))

			r.Get("/bookings", bookingHandlers.List)
			r.Get("/bookings/calendar", bookingHandlers.Calendar)
			r.Get("/bookings/{id}", bookingHandlers.Get)

			r.Get("/clients", clientHandlers.List)
			r.Post("/clients", clientHandlers.Create)
			r.Get("/clients/{id}", clientHandlers.Get)

			r.Get("/vehicles", vehicleHandlers.List)
			r.Get("/vehicles/{id}", vehicleHandlers.Get)

			r.Get("/dashboard", dashboardHandlers.Summary)

			r.Get("/finance/summary", financeHandlers.Summary)
			r.Get("/finance/report/month", financeHandlers.MonthReport)

			var contractHandlers contract.Handlers
			if deps.DB != nil {
				contractHandlers = contract.Handlers{
					Engine:    engine,
					Clients:   clientRepo,
					Vehicles:  vehicleRepo,
					Contracts: contract.NewRepository(deps.DB),
				}
				r.Get("/bookings/{id}/contract", contractHandlers.Get)
				r.Get("/bookings/{id}/contract/pdf", contractHandlers.PDF)
			}

			// Everything that mutates the workflow or moves money is admin
			// only; agents get the read surface plus client registration.
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)

				r.Post("/bookings", bookingHandlers.Create)
				r.Post("/bookings/{id}/transition", bookingHandlers.Transition)
				r.Delete("/bookings/{id}", bookingHandlers.Archive)

				r.Post("/vehicles", vehicleHandlers.Create)
				r.Patch("/vehicles/{id}/status", vehicleHandlers.PatchStatus)

				r.Post("/finance/invoices", financeHandlers.CreateInvoice)
				r.Post("/finance/invoices/{id}/pay", financeHandlers.PayInvoice)
				r.Post("/finance/expenses", financeHandlers.CreateExpense)

				if deps.DB != nil {
					r.Put("/bookings/{id}/contract", contractHandlers.Save)
					r.Post("/bookings/{id}/contract-and-start", contractHandlers.StartWithContract)
				}
			})
		})
	})

	return r
}
