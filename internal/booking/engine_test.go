package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"rentalboard/internal/schema"
	"rentalboard/internal/store"
)

// fakeStore is an in-memory store.Store that counts writes so tests can
// assert the one-write-per-mutation contract.
type fakeStore struct {
	records map[string]store.Record
	nextID  int

	creates  int
	moves    int
	updates  int
	archives int
	archived map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]store.Record{}, archived: map[string]bool{}}
}

func (f *fakeStore) put(containerID, title, payload string) store.Record {
	f.nextID++
	rec := store.Record{
		ID:          fmt.Sprintf("card%03d", f.nextID),
		Title:       title,
		Payload:     payload,
		ContainerID: containerID,
		URL:         "https://board.example/c/" + fmt.Sprintf("card%03d", f.nextID),
	}
	f.records[rec.ID] = rec
	return rec
}

func (f *fakeStore) ListRecords(_ context.Context, containerID string) ([]store.Record, error) {
	var out []store.Record
	for _, rec := range f.records {
		if rec.ContainerID == containerID && !f.archived[rec.ID] {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) GetRecord(_ context.Context, id string) (store.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return store.Record{}, fmt.Errorf("get %s: %w", id, store.ErrNotFound)
	}
	return rec, nil
}

func (f *fakeStore) CreateRecord(_ context.Context, containerID, title, payload string) (store.Record, error) {
	f.creates++
	return f.put(containerID, title, payload), nil
}

func (f *fakeStore) MoveRecord(_ context.Context, id, containerID, payload string) error {
	f.moves++
	rec, ok := f.records[id]
	if !ok {
		return fmt.Errorf("move %s: %w", id, store.ErrNotFound)
	}
	rec.ContainerID = containerID
	rec.Payload = payload
	f.records[id] = rec
	return nil
}

func (f *fakeStore) UpdateRecord(_ context.Context, id, payload string) error {
	f.updates++
	rec, ok := f.records[id]
	if !ok {
		return fmt.Errorf("update %s: %w", id, store.ErrNotFound)
	}
	rec.Payload = payload
	f.records[id] = rec
	return nil
}

func (f *fakeStore) ArchiveRecord(_ context.Context, id string) error {
	f.archives++
	if _, ok := f.records[id]; !ok {
		return fmt.Errorf("archive %s: %w", id, store.ErrNotFound)
	}
	f.archived[id] = true
	return nil
}

func (f *fakeStore) AttachFile(_ context.Context, id, _ string, _ []byte) error {
	if _, ok := f.records[id]; !ok {
		return fmt.Errorf("attach %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func testContainers(t *testing.T) Containers {
	t.Helper()
	c, err := NewContainers(map[Status]string{
		StatusRequested: "list-requested",
		StatusReserved:  "list-reserved",
		StatusOngoing:   "list-ongoing",
		StatusDone:      "list-done",
		StatusCanceled:  "list-canceled",
	})
	if err != nil {
		t.Fatalf("containers: %v", err)
	}
	return c
}

var agent = schema.Actor{Role: "agent", Name: "Sara"}

func TestCreate_LandsInRequestedWithAudit(t *testing.T) {
	fs := newFakeStore()
	e := NewEngine(fs, testContainers(t))

	b, err := e.Create(context.Background(), Booking{
		ClientName:  "Amel B.",
		VehicleName: "Clio 5",
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-05",
	}, agent)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if b.Status != StatusRequested {
		t.Fatalf("expected REQUESTED, got %s", b.Status)
	}
	if b.ID == "" || b.URL == "" {
		t.Fatalf("expected store-assigned id and url, got %+v", b)
	}
	if b.Title != "Amel B. — Clio 5" {
		t.Fatalf("unexpected title: %q", b.Title)
	}
	if len(b.Audit) != 1 || b.Audit[0].Action != "booking_create" {
		t.Fatalf("expected one booking_create audit entry, got %+v", b.Audit)
	}
	if b.Audit[0].Name != "Sara" || b.Audit[0].Role != "agent" {
		t.Fatalf("audit entry should carry the actor, got %+v", b.Audit[0])
	}
	if fs.creates != 1 || fs.moves != 0 || fs.updates != 0 {
		t.Fatalf("expected exactly one create write, got creates=%d moves=%d updates=%d",
			fs.creates, fs.moves, fs.updates)
	}

	rec := fs.records[b.ID]
	if rec.ContainerID != "list-requested" {
		t.Fatalf("record in wrong container: %s", rec.ContainerID)
	}
	if strings.Contains(rec.Payload, `"REQUESTED"`) {
		t.Fatalf("status must not be serialized into the payload: %s", rec.Payload)
	}
}

func TestCreate_RejectsMissingReferences(t *testing.T) {
	fs := newFakeStore()
	e := NewEngine(fs, testContainers(t))

	cases := []Booking{
		{},
		{ClientName: "Amel B."},
		{VehicleName: "Clio 5"},
		{ClientName: "   ", VehicleName: "Clio 5"},
	}
	for _, fields := range cases {
		_, err := e.Create(context.Background(), fields, agent)
		var validation *schema.ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("%+v: expected ValidationError, got %v", fields, err)
		}
	}
	if fs.creates != 0 {
		t.Fatalf("rejected creates must not write, got %d", fs.creates)
	}
}

func TestCreate_AcceptsIDOnlyReferences(t *testing.T) {
	fs := newFakeStore()
	e := NewEngine(fs, testContainers(t))

	b, err := e.Create(context.Background(), Booking{ClientID: "cl1", VehicleID: "vh1"}, agent)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Title != "New booking request" {
		t.Fatalf("unexpected fallback title: %q", b.Title)
	}
}

func TestTransition_ConfirmThenStart(t *testing.T) {
	fs := newFakeStore()
	e := NewEngine(fs, testContainers(t))

	created, err := e.Create(context.Background(), Booking{ClientName: "Amel B.", VehicleName: "Clio 5"}, agent)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	confirmed, err := e.Transition(context.Background(), created.ID, ActionConfirm, agent)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != StatusReserved {
		t.Fatalf("expected RESERVED, got %s", confirmed.Status)
	}

	started, err := e.Transition(context.Background(), created.ID, ActionStartRental, agent)
	if err != nil {
		t.Fatalf("start_rental: %v", err)
	}
	if started.Status != StatusOngoing {
		t.Fatalf("expected ONGOING, got %s", started.Status)
	}

	if len(started.Audit) != 3 {
		t.Fatalf("expected create+confirm+start audit entries, got %d", len(started.Audit))
	}
	last := started.Audit[2]
	if last.Action != "start_rental" || last.Meta["from_status"] != "RESERVED" || last.Meta["to_status"] != "ONGOING" {
		t.Fatalf("unexpected audit entry: %+v", last)
	}

	// create + two transitions, each transition one move write
	if fs.creates != 1 || fs.moves != 2 || fs.updates != 0 {
		t.Fatalf("unexpected write counts: creates=%d moves=%d updates=%d", fs.creates, fs.moves, fs.updates)
	}
	if fs.records[created.ID].ContainerID != "list-ongoing" {
		t.Fatalf("record not relocated: %s", fs.records[created.ID].ContainerID)
	}
}

func TestTransition_RejectedWithoutWrite(t *testing.T) {
	fs := newFakeStore()
	e := NewEngine(fs, testContainers(t))

	created, err := e.Create(context.Background(), Booking{ClientName: "Amel B.", VehicleName: "Clio 5"}, agent)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before := fs.records[created.ID]

	_, err = e.Transition(context.Background(), created.ID, ActionStartRental, agent)
	var invalid *schema.InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if invalid.Status != string(StatusRequested) || invalid.Action != string(ActionStartRental) {
		t.Fatalf("error should carry the rejected edge: %+v", invalid)
	}

	after := fs.records[created.ID]
	if fs.moves != 0 || fs.updates != 0 {
		t.Fatalf("rejected transition must not write, got moves=%d updates=%d", fs.moves, fs.updates)
	}
	if after != before {
		t.Fatalf("record mutated by rejected transition: %+v", after)
	}
}

func TestGet_NotFound(t *testing.T) {
	e := NewEngine(newFakeStore(), testContainers(t))
	_, err := e.Get(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_MalformedPayloadIsNotABlankBooking(t *testing.T) {
	fs := newFakeStore()
	rec := fs.put("list-requested", "manual card", "not structured data at all")
	e := NewEngine(fs, testContainers(t))

	_, err := e.Get(context.Background(), rec.ID)
	var malformed *schema.MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
	if malformed.RecordID != rec.ID {
		t.Fatalf("error should name the record, got %+v", malformed)
	}
}

func TestGet_RecordOutsideManagedContainers(t *testing.T) {
	fs := newFakeStore()
	rec := fs.put("list-unrelated", "stray card", "")
	e := NewEngine(fs, testContainers(t))

	_, err := e.Get(context.Background(), rec.ID)
	var malformed *schema.MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
}

func TestGet_EmptyPayloadIsValid(t *testing.T) {
	fs := newFakeStore()
	rec := fs.put("list-requested", "hand-made card", "")
	e := NewEngine(fs, testContainers(t))

	b, err := e.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != StatusRequested || b.Title != "hand-made card" {
		t.Fatalf("unexpected booking: %+v", b)
	}
}

func TestList_SkipsMalformedRecords(t *testing.T) {
	fs := newFakeStore()
	good, err := (Booking{ClientName: "Amel B."}).EncodePayload()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	fs.put("list-requested", "good", good)
	fs.put("list-requested", "junk", "free text left by hand")
	e := NewEngine(fs, testContainers(t))

	out, err := e.List(context.Background(), StatusRequested)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 || out[0].ClientName != "Amel B." {
		t.Fatalf("expected the one parseable booking, got %+v", out)
	}
}

func TestArchive(t *testing.T) {
	fs := newFakeStore()
	e := NewEngine(fs, testContainers(t))

	created, err := e.Create(context.Background(), Booking{ClientName: "Amel B.", VehicleName: "Clio 5"}, agent)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.Archive(context.Background(), created.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	// archiving again is a no-op at the store level
	if err := e.Archive(context.Background(), created.ID); err != nil {
		t.Fatalf("re-archive: %v", err)
	}

	out, err := e.List(context.Background(), StatusRequested)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("archived record should not list, got %+v", out)
	}
}
