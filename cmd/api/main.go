package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"rentalboard/internal/booking"
	"rentalboard/internal/httpapi"
	"rentalboard/internal/jobs"
	"rentalboard/internal/logger"
	"rentalboard/internal/notify"
	"rentalboard/internal/scheduler"
	"rentalboard/internal/store"
	"rentalboard/pkg/config"
	"rentalboard/pkg/db"
	"rentalboard/pkg/trello"
)

func main() {
	cfg := config.Load()
	logger.Initialize(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tc := &trello.Client{Key: cfg.Trello.Key, Token: cfg.Trello.Token}

	boardID, err := tc.ResolveBoardID(ctx, cfg.Trello.Board)
	if err != nil {
		log.Fatalf("resolve board: %v", err)
	}

	containers, err := resolveContainers(ctx, tc, boardID, cfg.Trello)
	if err != nil {
		log.Fatalf("resolve lists: %v", err)
	}
	logger.Info("board resolved", "board_id", boardID)

	// DATABASE_URL is optional; without it the contract endpoints are not
	// mounted and everything else runs off the board alone.
	var conn *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		conn, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer conn.Close()

		if cfg.MigrationsPath != "" {
			if err := db.Migrate(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
				log.Fatalf("migrate: %v", err)
			}
		}
	}

	st := store.Instrument(tc)
	notifier := notify.NewMailer(cfg.Email)

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:        cfg,
		DB:         conn,
		Store:      st,
		Containers: containers,
		Notifier:   notifier,
	})

	if cfg.Jobs.Enabled {
		sched := scheduler.New()
		scan := jobs.OverdueScan{
			Engine:   booking.NewEngine(st, containers.Bookings),
			Notifier: notifier,
		}
		if err := sched.Register(cfg.Jobs.OverdueScan, "overdue_scan", scan.Run); err != nil {
			log.Fatalf("scheduler: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
}

// resolveContainers maps every configured list name to its id, once, so the
// hot path never does name lookups.
func resolveContainers(ctx context.Context, tc *trello.Client, boardID string, cfg config.TrelloConfig) (httpapi.Containers, error) {
	resolve := func(name string, dst *string, err error) error {
		if err != nil {
			return err
		}
		id, rerr := tc.ResolveListID(ctx, boardID, name)
		if rerr != nil {
			return rerr
		}
		*dst = id
		return nil
	}

	var (
		c   httpapi.Containers
		err error

		requested, reserved, ongoing, done, canceled string
	)
	err = resolve(cfg.ListRequested, &requested, err)
	err = resolve(cfg.ListReserved, &reserved, err)
	err = resolve(cfg.ListOngoing, &ongoing, err)
	err = resolve(cfg.ListDone, &done, err)
	err = resolve(cfg.ListCanceled, &canceled, err)
	err = resolve(cfg.ListClients, &c.Clients, err)
	err = resolve(cfg.ListVehicles, &c.Vehicles, err)
	err = resolve(cfg.ListInvoicesOpen, &c.Finance.InvoicesOpen, err)
	err = resolve(cfg.ListInvoicesPaid, &c.Finance.InvoicesPaid, err)
	err = resolve(cfg.ListExpenses, &c.Finance.Expenses, err)
	if err != nil {
		return httpapi.Containers{}, err
	}

	c.Bookings, err = booking.NewContainers(map[booking.Status]string{
		booking.StatusRequested: requested,
		booking.StatusReserved:  reserved,
		booking.StatusOngoing:   ongoing,
		booking.StatusDone:      done,
		booking.StatusCanceled:  canceled,
	})
	if err != nil {
		return httpapi.Containers{}, err
	}
	return c, nil
}
