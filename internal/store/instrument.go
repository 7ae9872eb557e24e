package store

import (
	"context"

	"rentalboard/internal/metrics"
)

// Instrument wraps a Store with per-operation call and error counters.
func Instrument(s Store) Store {
	return &instrumented{next: s}
}

type instrumented struct {
	next Store
}

func (s *instrumented) observe(op string, err error) {
	metrics.StoreCalls.WithLabelValues(op).Inc()
	if err != nil {
		metrics.StoreErrors.WithLabelValues(op).Inc()
	}
}

func (s *instrumented) ListRecords(ctx context.Context, containerID string) ([]Record, error) {
	out, err := s.next.ListRecords(ctx, containerID)
	s.observe("list", err)
	return out, err
}

func (s *instrumented) GetRecord(ctx context.Context, id string) (Record, error) {
	out, err := s.next.GetRecord(ctx, id)
	s.observe("get", err)
	return out, err
}

func (s *instrumented) CreateRecord(ctx context.Context, containerID, title, payload string) (Record, error) {
	out, err := s.next.CreateRecord(ctx, containerID, title, payload)
	s.observe("create", err)
	return out, err
}

func (s *instrumented) MoveRecord(ctx context.Context, id, containerID, payload string) error {
	err := s.next.MoveRecord(ctx, id, containerID, payload)
	s.observe("move", err)
	return err
}

func (s *instrumented) UpdateRecord(ctx context.Context, id, payload string) error {
	err := s.next.UpdateRecord(ctx, id, payload)
	s.observe("update", err)
	return err
}

func (s *instrumented) ArchiveRecord(ctx context.Context, id string) error {
	err := s.next.ArchiveRecord(ctx, id)
	s.observe("archive", err)
	return err
}

func (s *instrumented) AttachFile(ctx context.Context, id, filename string, data []byte) error {
	err := s.next.AttachFile(ctx, id, filename, data)
	s.observe("attach", err)
	return err
}
