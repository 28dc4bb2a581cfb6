// Package inmemory provides an in-memory audit driver for tests and for
// running the gateway without persistent audit storage.
package inmemory

import (
	"context"
	"sync"

	"github.com/papercomputeco/aegis/pkg/audit"
)

// Driver implements audit.Driver using an in-memory slice.
type Driver struct {
	// mu guards events.
	mu sync.RWMutex

	// events in append order (oldest first).
	events []*audit.Event
}

// NewDriver creates a new in-memory audit driver.
func NewDriver() *Driver {
	return &Driver{}
}

// Append stores an event.
func (d *Driver) Append(_ context.Context, event *audit.Event) error {
	if event == nil {
		return audit.ErrNilEvent
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	copied := *event
	d.events = append(d.events, &copied)
	return nil
}

// List returns up to limit events, most recent first.
func (d *Driver) List(_ context.Context, limit int) ([]*audit.Event, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := len(d.events)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]*audit.Event, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		copied := *d.events[i]
		out = append(out, &copied)
	}
	return out, nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}
