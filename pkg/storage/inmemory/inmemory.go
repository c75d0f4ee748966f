// Package inmemory provides a map-backed storage driver for tests and
// one-shot commands.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/papercomputeco/sucker/pkg/facts"
	"github.com/papercomputeco/sucker/pkg/storage"
)

type entry struct {
	run    storage.Run
	tables *facts.Tables
}

// Driver implements storage.Driver using an in-memory map.
type Driver struct {
	// mu is a read write sync mutex for locking the run map
	mu sync.RWMutex

	runs  map[string]*entry
	order []string
}

// NewDriver creates a new in-memory driver.
func NewDriver() *Driver {
	return &Driver{
		runs: make(map[string]*entry),
	}
}

// SaveTables stores a copy of t under runID.
func (d *Driver) SaveTables(_ context.Context, runID, source string, t *facts.Tables) (*storage.Run, error) {
	if t == nil {
		return nil, errors.New("cannot store nil tables")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.runs[runID]; ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrRunExists, runID)
	}

	e := &entry{
		run: storage.Run{
			ID:        runID,
			Source:    source,
			CreatedAt: time.Now().UTC(),
			Counts:    t.Counts(),
		},
		tables: t.Clone(),
	}
	d.runs[runID] = e
	d.order = append(d.order, runID)

	run := e.run
	return &run, nil
}

// Tables returns a copy of the stored tables.
func (d *Driver) Tables(_ context.Context, runID string) (*facts.Tables, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, ok := d.runs[runID]
	if !ok {
		return nil, storage.NotFoundError{RunID: runID}
	}
	return e.tables.Clone(), nil
}

// Messages returns messages matching filter, by run then encounter order.
func (d *Driver) Messages(_ context.Context, filter storage.MessageFilter) ([]facts.Message, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []facts.Message
	for _, id := range d.order {
		for _, m := range d.runs[id].tables.Messages {
			if !filter.Match(id, m) {
				continue
			}
			out = append(out, m)
			if filter.Limit > 0 && len(out) == filter.Limit {
				return out, nil
			}
		}
	}
	return out, nil
}

// Run returns one run.
func (d *Driver) Run(_ context.Context, runID string) (*storage.Run, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, ok := d.runs[runID]
	if !ok {
		return nil, storage.NotFoundError{RunID: runID}
	}
	run := e.run
	return &run, nil
}

// Runs returns every run in save order.
func (d *Driver) Runs(_ context.Context) ([]*storage.Run, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*storage.Run, 0, len(d.order))
	for _, id := range d.order {
		run := d.runs[id].run
		out = append(out, &run)
	}
	return out, nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}

var _ storage.Driver = (*Driver)(nil)
