package store

import (
	"errors"

	"tcw-alerts/internal/alert"
)

// ErrDuplicateID is returned by Insert when an alert with the same id is
// already stored. With server-assigned ids this should never happen.
var ErrDuplicateID = errors.New("alert id already exists")

// Store is the alert collection shared between the matching engine and the
// management API. Each call is atomic on its own; callers must treat ListAll
// results as a snapshot that can be stale by the time they act on it.
type Store interface {
	// ListAll returns a snapshot of every active alert.
	ListAll() ([]alert.Alert, error)

	// Insert adds one alert. Fails with ErrDuplicateID on id collision.
	Insert(a alert.Alert) error

	// DeleteByIDs removes the alerts whose id appears in ids. Ids that are
	// no longer present are skipped silently, so retiring an alert that a
	// concurrent overwrite already removed is harmless.
	DeleteByIDs(ids []string) error

	// ReplaceAll discards the stored collection and installs alerts.
	ReplaceAll(alerts []alert.Alert) error

	// Close releases the underlying resources.
	Close() error
}
