package cache

import (
	"context"
	"time"

	authclient "github.com/leyinvest/go-auth-client"
)

// currentAuthKey keys the single session record in the auth store. There is
// exactly one session per database.
const currentAuthKey = "current"

// Manager adapts the record store to the authclient.AuthCache contract.
type Manager struct {
	store *Store
}

// NewManager creates a Manager on top of store.
func NewManager(store *Store) *Manager {
	return &Manager{store: store}
}

// CacheAuthRecord writes rec as the current session record.
func (m *Manager) CacheAuthRecord(ctx context.Context, rec *authclient.CachedAuth) error {
	return m.store.Set(ctx, StoreAuth, currentAuthKey, rec)
}

// AuthRecord returns the current session record, or nil when none is stored.
func (m *Manager) AuthRecord(ctx context.Context) (*authclient.CachedAuth, error) {
	var rec authclient.CachedAuth
	found, cachedAt, err := m.store.Get(ctx, StoreAuth, currentAuthKey, &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if rec.CachedAt.IsZero() {
		rec.CachedAt = cachedAt
	}
	return &rec, nil
}

// CacheUserData stores user as the last known good profile for userID.
func (m *Manager) CacheUserData(ctx context.Context, userID string, user *authclient.User) error {
	return m.store.Set(ctx, StoreUser, userID, user)
}

// UserData returns the cached profile for userID, or nil when none is stored.
func (m *Manager) UserData(ctx context.Context, userID string) (*authclient.User, error) {
	var user authclient.User
	found, _, err := m.store.Get(ctx, StoreUser, userID, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// ClearAuth drops the session record. Cached profiles survive so a later
// login can render a warm dashboard.
func (m *Manager) ClearAuth(ctx context.Context) error {
	return m.store.ClearStore(ctx, StoreAuth)
}

// ClearExpired sweeps records older than maxAge across every store.
func (m *Manager) ClearExpired(ctx context.Context, maxAge time.Duration) error {
	return m.store.ClearExpired(ctx, maxAge)
}
