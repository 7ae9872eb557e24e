// Command bootstrap prepares a board for the API: it resolves the board,
// creates any missing managed lists, and prints the resolved ids in env-file
// form so they can be pasted into the deployment config.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rentalboard/pkg/config"
	"rentalboard/pkg/trello"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tc := &trello.Client{Key: cfg.Trello.Key, Token: cfg.Trello.Token}

	boardID, err := tc.ResolveBoardID(ctx, cfg.Trello.Board)
	if err != nil {
		log.Fatalf("resolve board: %v", err)
	}
	fmt.Printf("# board %s\n", boardID)

	lists := []struct {
		envKey string
		name   string
	}{
		{"TRELLO_LIST_REQUESTED", cfg.Trello.ListRequested},
		{"TRELLO_LIST_RESERVED", cfg.Trello.ListReserved},
		{"TRELLO_LIST_ONGOING", cfg.Trello.ListOngoing},
		{"TRELLO_LIST_DONE", cfg.Trello.ListDone},
		{"TRELLO_LIST_CANCELED", cfg.Trello.ListCanceled},
		{"TRELLO_LIST_CLIENTS", cfg.Trello.ListClients},
		{"TRELLO_LIST_VEHICLES", cfg.Trello.ListVehicles},
		{"TRELLO_LIST_INVOICES_OPEN", cfg.Trello.ListInvoicesOpen},
		{"TRELLO_LIST_INVOICES_PAID", cfg.Trello.ListInvoicesPaid},
		{"TRELLO_LIST_EXPENSES", cfg.Trello.ListExpenses},
	}

	for _, l := range lists {
		id, err := tc.EnsureList(ctx, boardID, l.name)
		if err != nil {
			log.Fatalf("ensure list %q: %v", l.name, err)
		}
		fmt.Printf("%s=%s\n", l.envKey, id)
	}
}
