package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rentalboard/internal/auth"
	"rentalboard/internal/booking"
	"rentalboard/internal/finance"
	"rentalboard/internal/store"
	"rentalboard/pkg/config"
)

// stubStore satisfies store.Store with empty lists and accepting writes, so
// routing and middleware can be exercised without a board.
type stubStore struct{}

func (stubStore) ListRecords(context.Context, string) ([]store.Record, error) { return nil, nil }

func (stubStore) GetRecord(_ context.Context, id string) (store.Record, error) {
	return store.Record{}, fmt.Errorf("get %s: %w", id, store.ErrNotFound)
}

func (stubStore) CreateRecord(_ context.Context, containerID, title, payload string) (store.Record, error) {
	return store.Record{ID: "card001", Title: title, Payload: payload, ContainerID: containerID}, nil
}

func (stubStore) MoveRecord(context.Context, string, string, string) error { return nil }
func (stubStore) UpdateRecord(context.Context, string, string) error       { return nil }
func (stubStore) ArchiveRecord(context.Context, string) error              { return nil }
func (stubStore) AttachFile(context.Context, string, string, []byte) error { return nil }

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	containers, err := booking.NewContainers(map[booking.Status]string{
		booking.StatusRequested: "l-req",
		booking.StatusReserved:  "l-res",
		booking.StatusOngoing:   "l-ong",
		booking.StatusDone:      "l-done",
		booking.StatusCanceled:  "l-can",
	})
	if err != nil {
		t.Fatalf("containers: %v", err)
	}
	cfg := config.Config{Auth: config.AuthConfig{SessionSecret: "router-test-secret"}}
	return NewRouter(Dependencies{
		Cfg:   cfg,
		Store: stubStore{},
		Containers: Containers{
			Bookings: containers,
			Clients:  "l-clients",
			Vehicles: "l-vehicles",
			Finance:  finance.Containers{InvoicesOpen: "l-inv-o", InvoicesPaid: "l-inv-p", Expenses: "l-exp"},
		},
	})
}

func sessionToken(t *testing.T, role string) string {
	t.Helper()
	tok, err := auth.IssueSessionToken("router-test-secret", role, "Tester", time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func doRequest(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_RequiresSession(t *testing.T) {
	h := testRouter(t)
	if rec := doRequest(t, h, http.MethodGet, "/v1/bookings", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestRouter_AgentReadSurface(t *testing.T) {
	h := testRouter(t)
	agent := sessionToken(t, auth.RoleAgent)

	for _, path := range []string{"/v1/bookings", "/v1/clients", "/v1/vehicles", "/v1/finance/summary", "/v1/dashboard"} {
		if rec := doRequest(t, h, http.MethodGet, path, agent, ""); rec.Code != http.StatusOK {
			t.Fatalf("GET %s as agent: expected 200, got %d (%s)", path, rec.Code, rec.Body.String())
		}
	}
}

func TestRouter_AdminGateRejectsAgents(t *testing.T) {
	h := testRouter(t)
	agent := sessionToken(t, auth.RoleAgent)

	cases := []struct {
		method, path string
	}{
		{http.MethodPost, "/v1/bookings"},
		{http.MethodPost, "/v1/bookings/card001/transition"},
		{http.MethodDelete, "/v1/bookings/card001"},
		{http.MethodPost, "/v1/vehicles"},
		{http.MethodPatch, "/v1/vehicles/card001/status"},
		{http.MethodPost, "/v1/finance/invoices"},
		{http.MethodPost, "/v1/finance/invoices/card001/pay"},
		{http.MethodPost, "/v1/finance/expenses"},
	}
	for _, c := range cases {
		rec := doRequest(t, h, c.method, c.path, agent, "{}")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s as agent: expected 403, got %d (%s)", c.method, c.path, rec.Code, rec.Body.String())
		}
	}
}

func TestRouter_AdminCanCreateBooking(t *testing.T) {
	h := testRouter(t)
	admin := sessionToken(t, auth.RoleAdmin)

	body := `{"client_name": "Amel B.", "vehicle_name": "Clio 5"}`
	rec := doRequest(t, h, http.MethodPost, "/v1/bookings", admin, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestRouter_AgentCanRegisterClient(t *testing.T) {
	h := testRouter(t)
	agent := sessionToken(t, auth.RoleAgent)

	rec := doRequest(t, h, http.MethodPost, "/v1/clients", agent, `{"full_name": "Amel Benali"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
}
