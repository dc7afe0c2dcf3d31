package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no room exists under the given id.
var ErrNotFound = errors.New("store: room not found")

// DefaultTTL is how long an untouched room survives. Every Save refreshes it.
const DefaultTTL = 2 * time.Hour

// keyPrefix namespaces room records in the backing store.
const keyPrefix = "game:"

// Store persists room state keyed by room id. Records expire after the
// configured TTL unless refreshed by a Save.
type Store interface {
	// Load returns the raw serialized room, or ErrNotFound.
	Load(ctx context.Context, roomID string) ([]byte, error)

	// Save writes the serialized room and resets its TTL.
	Save(ctx context.Context, roomID string, data []byte) error

	// Exists reports whether a room record is present.
	Exists(ctx context.Context, roomID string) (bool, error)

	// Delete removes a room record. Deleting a missing room is not an error.
	Delete(ctx context.Context, roomID string) error

	// Close releases the backing connection.
	Close() error
}

func key(roomID string) string {
	return keyPrefix + roomID
}
