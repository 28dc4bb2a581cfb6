package audit

import (
	"context"
	"errors"
)

// ErrNilEvent is returned when a nil event is appended.
var ErrNilEvent = errors.New("cannot store nil audit event")

// Driver defines the interface for persisting and querying audit events in
// a storage backend.
type Driver interface {
	// Append stores an event. Events are immutable once appended.
	Append(ctx context.Context, event *Event) error

	// List returns up to limit events, most recent first. A limit <= 0
	// returns all events.
	List(ctx context.Context, limit int) ([]*Event, error)

	// Close closes the store and releases any resources.
	Close() error
}
