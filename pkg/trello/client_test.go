package trello

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rentalboard/internal/store"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{BaseURL: srv.URL, Key: "k", Token: "tok"}
}

func TestDo_SendsCredentialsAsQueryParams(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "k" || q.Get("token") != "tok" {
			t.Errorf("missing credentials in query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"id":"abc","name":"card"}`))
	})

	if _, err := c.GetRecord(context.Background(), "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetRecord_404IsNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "card not found", http.StatusNotFound)
	})

	_, err := c.GetRecord(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDo_ServerErrorIsExternalError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := c.GetRecord(context.Background(), "abc")
	var external *store.ExternalError
	if !errors.As(err, &external) {
		t.Fatalf("expected ExternalError, got %v", err)
	}
}

func TestMoveRecord_SinglePUTWithListAndPayload(t *testing.T) {
	var calls int
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPut || r.URL.Path != "/cards/abc" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("idList") != "list2" {
			t.Errorf("missing idList: %s", r.URL.RawQuery)
		}
		if q.Get("desc") != `{"x":1}` {
			t.Errorf("missing desc: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{}`))
	})

	if err := c.MoveRecord(context.Background(), "abc", "list2", `{"x":1}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one request, got %d", calls)
	}
}

func TestArchiveRecord_ClosesCard(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Query().Get("closed") != "true" {
			t.Errorf("unexpected request: %s %s?%s", r.Method, r.URL.Path, r.URL.RawQuery)
		}
		w.Write([]byte(`{}`))
	})

	if err := c.ArchiveRecord(context.Background(), "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveBoardID(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/boards/shortlnk" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":"63a1b2c3d4e5f6a7b8c9d0e1"}`))
	})

	got, err := c.ResolveBoardID(context.Background(), "https://trello.com/b/shortlnk/my-board")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "63a1b2c3d4e5f6a7b8c9d0e1" {
		t.Fatalf("unexpected board id: %q", got)
	}

	// a raw 24-hex id resolves locally with no request
	got, err = c.ResolveBoardID(context.Background(), "63a1b2c3d4e5f6a7b8c9d0e1")
	if err != nil || got != "63a1b2c3d4e5f6a7b8c9d0e1" {
		t.Fatalf("raw id should pass through, got %q, %v", got, err)
	}
}

func TestResolveListID_MatchesLoosely(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"l1","name":"📥 DEMANDES"},
			{"id":"l2","name":" 📅  reservees "}
		]`))
	})

	got, err := c.ResolveListID(context.Background(), "board1", "📥 DEMANDES")
	if err != nil || got != "l1" {
		t.Fatalf("exact match failed: %q, %v", got, err)
	}
	got, err = c.ResolveListID(context.Background(), "board1", "📅 RESERVEES")
	if err != nil || got != "l2" {
		t.Fatalf("loose match failed: %q, %v", got, err)
	}

	_, err = c.ResolveListID(context.Background(), "board1", "NO SUCH LIST")
	if err == nil {
		t.Fatalf("expected error naming available lists")
	}
}
