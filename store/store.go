// Package store persists status records with last-write-wins semantics.
package store

import (
	"context"
	"fmt"
	"github.com/glassechidna/statusrecorder/status"
	"github.com/pkg/errors"
)

type Writer interface {
	Put(ctx context.Context, r status.Record) error
}

type Reader interface {
	Get(ctx context.Context, instanceID string) (*status.Record, error)
}

type ReadWriter interface {
	Writer
	Reader
}

var ErrNotFound = errors.New("status record not found")

// StorageError wraps any failure of the underlying persistence layer.
type StorageError struct {
	InstanceID string
	Err        error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storing status for %q: %v", e.InstanceID, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
func (e *StorageError) Cause() error  { return e.Err }

func storageError(instanceID string, err error) error {
	return &StorageError{InstanceID: instanceID, Err: errors.WithStack(err)}
}
