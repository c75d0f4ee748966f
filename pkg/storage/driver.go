// Package storage persists walked fact tables so they can be queried and
// re-analyzed without re-reading session logs.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/sucker/pkg/eventlog"
	"github.com/papercomputeco/sucker/pkg/facts"
)

// Run is one export: the tables walked from one source.
type Run struct {
	ID        string       `json:"id"`
	Source    string       `json:"source"`
	CreatedAt time.Time    `json:"created_at"`
	Counts    facts.Counts `json:"counts"`
}

// MessageFilter selects stored messages. Zero fields match everything.
type MessageFilter struct {
	RunID  string
	Game   eventlog.GameID
	Player eventlog.PlayerID
	Phase  facts.Phase

	// Limit caps the number of messages returned; zero is unlimited.
	Limit int
}

// Match reports whether m, stored under runID, passes the filter.
func (f MessageFilter) Match(runID string, m facts.Message) bool {
	switch {
	case f.RunID != "" && f.RunID != runID:
		return false
	case f.Game != "" && f.Game != m.GameID:
		return false
	case f.Player != "" && f.Player != m.Player:
		return false
	case f.Phase != "" && f.Phase != m.Phase:
		return false
	}
	return true
}

// Driver defines the interface for persisting and retrieving fact tables.
type Driver interface {
	// SaveTables stores t under runID. Saving a run id twice is an error.
	SaveTables(ctx context.Context, runID, source string, t *facts.Tables) (*Run, error)

	// Tables loads every table of a run in encounter order.
	Tables(ctx context.Context, runID string) (*facts.Tables, error)

	// Messages returns messages matching filter, ordered by run then
	// encounter order.
	Messages(ctx context.Context, filter MessageFilter) ([]facts.Message, error)

	// Run returns one run.
	Run(ctx context.Context, runID string) (*Run, error)

	// Runs returns every run, oldest first.
	Runs(ctx context.Context) ([]*Run, error)

	// Close closes the store and releases any resources.
	Close() error
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}
