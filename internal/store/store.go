// Package store defines the boundary between the domain packages and the
// external card/list record store (a Trello board in production).
package store

import (
	"context"
	"errors"
	"fmt"
)

// Record is one entity in the external store. Payload is the free-text body
// of the record (a Trello card desc); domain packages own its encoding.
type Record struct {
	ID          string
	Title       string
	Payload     string
	ContainerID string
	URL         string
}

// Store is the minimal surface the workflow engine and the master-data
// packages consume. Each call is one synchronous request to the external
// store; there is no batching and no local cache.
//
// MoveRecord takes the updated payload alongside the target container so a
// status transition (relocate + audit append) is a single external write.
type Store interface {
	ListRecords(ctx context.Context, containerID string) ([]Record, error)
	GetRecord(ctx context.Context, id string) (Record, error)
	CreateRecord(ctx context.Context, containerID, title, payload string) (Record, error)
	MoveRecord(ctx context.Context, id, containerID, payload string) error
	UpdateRecord(ctx context.Context, id, payload string) error
	ArchiveRecord(ctx context.Context, id string) error
	AttachFile(ctx context.Context, id, filename string, data []byte) error
}

// ErrNotFound is returned when the external store has no record with the
// requested id.
var ErrNotFound = errors.New("record not found")

// ExternalError wraps a transport/auth/rate-limit failure talking to the
// external store. Not locally recoverable; callers surface it as-is.
type ExternalError struct {
	Op  string
	Err error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("external store: %s: %v", e.Op, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }
