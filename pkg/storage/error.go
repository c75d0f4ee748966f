package storage

import "errors"

// ErrRunExists is returned when saving under a run id already in the store.
var ErrRunExists = errors.New("run already exists")

// NotFoundError is returned when a run doesn't exist in the store.
type NotFoundError struct {
	RunID string
}

func (e NotFoundError) Error() string {
	if e.RunID == "" {
		return "run not found"
	}

	return "run not found: " + e.RunID
}
