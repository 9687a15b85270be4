// Package persist stores records as JSON documents keyed by URL and syncs
// records against those documents.
package persist

import (
	"context"
	"errors"
	"time"
)

// Store persists documents by key. Implementations must be safe for
// concurrent use.
type Store interface {
	// Put writes doc under key, creating or replacing it, and returns the
	// document's new metadata. Revisions start at 1 and grow by one per Put.
	Put(ctx context.Context, key string, doc []byte) (Info, error)

	// Get returns the document under key.
	// Returns ErrNotFound if there is none.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the document under key.
	// Returns ErrNotFound if there is none.
	Delete(ctx context.Context, key string) error

	// List returns metadata for every key starting with prefix, ordered by
	// key. Returns an empty slice (not an error) when nothing matches.
	List(ctx context.Context, prefix string) ([]Info, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Info describes a stored document without loading it.
type Info struct {
	Key      string
	Revision int64
	Updated  time.Time
	Size     int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates no document exists under a key.
	ErrNotFound = errors.New("document not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("store closed")
)
