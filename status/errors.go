package status

import (
	"fmt"
)

// MalformedEventError means a required field was missing from an inbound event.
// The event is dropped; it is never retried.
type MalformedEventError struct {
	Kind  string
	Field string
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed %s event: missing %s", e.Kind, e.Field)
}

func malformed(kind, field string) error {
	return &MalformedEventError{Kind: kind, Field: field}
}
