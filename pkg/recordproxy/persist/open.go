package persist

import (
	"fmt"

	"github.com/randalmurphal/recordproxy/pkg/recordproxy/registry"
)

// Opener opens a Store from a data source name.
type Opener func(dsn string) (Store, error)

var (
	openers      = registry.New[Opener]("store kind")
	sharedMemory = registry.New[*MemoryStore]("memory store")
)

func init() {
	Register("memory", openMemory)
	Register("sqlite", func(dsn string) (Store, error) {
		return NewSQLiteStore(dsn)
	})
}

// Register makes a store kind available to Open. Registering an existing
// kind replaces it.
func Register(kind string, open Opener) {
	openers.Set(kind, open)
}

// Kinds returns the registered store kinds in sorted order.
func Kinds() []string {
	return openers.Names()
}

// Open opens a store of the given kind.
//
// For "memory", an empty dsn yields a private store; a non-empty dsn names
// a store shared by every Open with that name until it is closed. For
// "sqlite", dsn is the database path.
func Open(kind, dsn string) (Store, error) {
	open, err := openers.Lookup(kind)
	if err != nil {
		return nil, err
	}
	store, err := open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", kind, err)
	}
	return store, nil
}

func openMemory(dsn string) (Store, error) {
	if dsn == "" {
		return NewMemoryStore(), nil
	}
	return sharedMemory.Ensure(dsn, func() *MemoryStore {
		m := NewMemoryStore()
		m.name = dsn
		return m
	}), nil
}
