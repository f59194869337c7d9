package remote

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by every operation while no sync config is
// present. Expected and recoverable: the UI shows a "not configured"
// state, nothing alarms.
var ErrNotConfigured = errors.New("sync not configured")

// StoreError is a non-2xx response from the document store. A 404 on
// reads and deletes means "absent" and is never surfaced as a StoreError.
type StoreError struct {
	Op     string
	Status int
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s failed: %d", e.Op, e.Status)
}
