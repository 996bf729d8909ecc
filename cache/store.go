// Package cache implements the asynchronous structured storage tier on top
// of a local SQLite database. Records are partitioned into logical stores
// ("auth", "user", "cache") and carry a write timestamp so stale entries can
// be swept.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	// StoreAuth holds the single current-session record.
	StoreAuth = "auth"
	// StoreUser holds last-known-good profile snapshots keyed by user id.
	StoreUser = "user"
	// StoreGeneric holds miscellaneous client-side cache entries.
	StoreGeneric = "cache"
)

// Record is the Bun model for one cached entry. The primary key is derived
// deterministically from (store, key) so writes are natural upserts.
type Record struct {
	bun.BaseModel `bun:"table:cache_records"`

	ID       uuid.UUID `bun:"id,pk,type:uuid"`
	Store    string    `bun:"store,notnull"`
	CacheKey string    `bun:"cache_key,notnull"`
	Data     []byte    `bun:"data,notnull"`
	CachedAt time.Time `bun:"cached_at,notnull"`
}

// Store reads and writes cache records through Bun.
type Store struct {
	db  *bun.DB
	now func() time.Time
}

// NewStore creates a record store on db.
func NewStore(db *bun.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// WithClock injects a custom clock (useful for tests).
func (s *Store) WithClock(clock func() time.Time) *Store {
	if clock != nil {
		s.now = clock
	}
	return s
}

// EnsureSchema creates the backing table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*Record)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// recordID derives the deterministic primary key for (store, key).
func recordID(store, key string) (uuid.UUID, error) {
	return hashid.NewUUID(store + ":" + key)
}

// Set serializes value and upserts it under (store, key).
func (s *Store) Set(ctx context.Context, store, key string, value any) error {
	id, err := recordID(store, key)
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	rec := &Record{
		ID:       id,
		Store:    store,
		CacheKey: key,
		Data:     data,
		CachedAt: s.now(),
	}

	_, err = s.db.NewInsert().
		Model(rec).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("cached_at = EXCLUDED.cached_at").
		Exec(ctx)
	return err
}

// Get deserializes the record under (store, key) into out. The second return
// reports whether a record existed; a missing record is not an error.
func (s *Store) Get(ctx context.Context, store, key string, out any) (bool, time.Time, error) {
	id, err := recordID(store, key)
	if err != nil {
		return false, time.Time{}, err
	}

	var rec Record
	err = s.db.NewSelect().
		Model(&rec).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, time.Time{}, nil
		}
		return false, time.Time{}, err
	}

	if out != nil {
		if err := json.Unmarshal(rec.Data, out); err != nil {
			return false, time.Time{}, err
		}
	}
	return true, rec.CachedAt, nil
}

// Remove deletes the record under (store, key). Removing a missing record is
// a no-op.
func (s *Store) Remove(ctx context.Context, store, key string) error {
	id, err := recordID(store, key)
	if err != nil {
		return err
	}

	_, err = s.db.NewDelete().
		Model((*Record)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// ClearStore drops every record in the given logical store.
func (s *Store) ClearStore(ctx context.Context, store string) error {
	_, err := s.db.NewDelete().
		Model((*Record)(nil)).
		Where("store = ?", store).
		Exec(ctx)
	return err
}

// ClearExpired drops every record across all stores written more than maxAge
// ago.
func (s *Store) ClearExpired(ctx context.Context, maxAge time.Duration) error {
	cutoff := s.now().Add(-maxAge)
	_, err := s.db.NewDelete().
		Model((*Record)(nil)).
		Where("cached_at < ?", cutoff).
		Exec(ctx)
	return err
}
