package testutils

import (
	"context"
	"errors"

	"github.com/papercomputeco/sucker/pkg/facts"
	"github.com/papercomputeco/sucker/pkg/storage"
	"github.com/papercomputeco/sucker/pkg/storage/inmemory"
)

// ErrMockDriver is returned by MockDriver when a failure is switched on.
var ErrMockDriver = errors.New("mock driver failure")

// MockDriver wraps the in-memory driver and records saves.
type MockDriver struct {
	*inmemory.Driver

	// Sources accumulates the source of every successful save.
	Sources []string

	// FailSave causes SaveTables to return ErrMockDriver.
	FailSave bool

	// Closed is set once Close is called.
	Closed bool
}

// NewMockDriver creates a new mock driver.
func NewMockDriver() *MockDriver {
	return &MockDriver{Driver: inmemory.NewDriver()}
}

func (m *MockDriver) SaveTables(ctx context.Context, runID, source string, t *facts.Tables) (*storage.Run, error) {
	if m.FailSave {
		return nil, ErrMockDriver
	}
	run, err := m.Driver.SaveTables(ctx, runID, source, t)
	if err != nil {
		return nil, err
	}
	m.Sources = append(m.Sources, source)
	return run, nil
}

func (m *MockDriver) Close() error {
	m.Closed = true
	return m.Driver.Close()
}

var _ storage.Driver = (*MockDriver)(nil)
