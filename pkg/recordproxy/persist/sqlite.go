package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	proxyerrors "github.com/randalmurphal/recordproxy/pkg/recordproxy/errors"
)

// SQLiteStore persists documents to SQLite.
// It is suitable for single-process use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens (creating if needed) a store at path, a file path or
// ":memory:".
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	// WAL gives concurrent readers while a write is in progress.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=1000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			key TEXT PRIMARY KEY,
			revision INTEGER NOT NULL,
			updated TEXT NOT NULL,
			doc BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Put implements Store.
func (s *SQLiteStore) Put(ctx context.Context, key string, doc []byte) (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Info{}, ErrStoreClosed
	}

	now := time.Now().UTC()
	info := Info{Key: key, Updated: now, Size: int64(len(doc))}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO documents (key, revision, updated, doc)
		VALUES (?, 1, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			revision = documents.revision + 1,
			updated = excluded.updated,
			doc = excluded.doc
		RETURNING revision
	`, key, now.Format(time.RFC3339Nano), doc).Scan(&info.Revision)
	if err != nil {
		return Info{}, storeError("put", key, err)
	}
	return info, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM documents WHERE key = ?`, key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError("get", key, err)
	}
	return doc, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, key)
	if err != nil {
		return storeError("delete", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeError("delete", key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, prefix string) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, revision, updated, LENGTH(doc)
		FROM documents
		WHERE key LIKE ? ESCAPE '\'
		ORDER BY key
	`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, storeError("list", prefix, err)
	}
	defer rows.Close()

	infos := []Info{}
	for rows.Next() {
		var info Info
		var updated string
		if err := rows.Scan(&info.Key, &info.Revision, &updated, &info.Size); err != nil {
			return nil, storeError("list", prefix, err)
		}
		info.Updated, _ = time.Parse(time.RFC3339Nano, updated)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list", prefix, err)
	}
	return infos, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// storeError wraps err, flagging lock contention so callers retry it.
func storeError(op, key string, err error) error {
	return &proxyerrors.StoreError{Op: op, Key: key, Busy: isBusy(err), Err: err}
}

func isBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code() & 0xff
	return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
}
