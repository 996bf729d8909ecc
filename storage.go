package authclient

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// MemoryStorage is a Storage backed by a plain map. Used in tests and in
// embedders that bring their own persistence.
type MemoryStorage struct {
	mu   sync.RWMutex
	vals map[string]string
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{vals: map[string]string{}}
}

func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vals[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[key] = value
	return nil
}

func (s *MemoryStorage) Del(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vals, key)
	return nil
}

// FileStorage persists the key space as a single JSON document. The full
// document loads at construction so reads stay synchronous afterwards, which
// is what lets the request pipeline attach a token before any async I/O has
// had a chance to run. Writes are last-writer-wins via atomic rename.
type FileStorage struct {
	path string
	mu   sync.RWMutex
	vals map[string]string
}

var _ Storage = (*FileStorage)(nil)

func NewFileStorage(path string) (*FileStorage, error) {
	s := &FileStorage{path: path, vals: map[string]string{}}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read storage file")
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.vals); err != nil {
			// A corrupt file means the persisted session is unrecoverable;
			// start empty rather than failing construction.
			s.vals = map[string]string{}
		}
	}
	return s, nil
}

func (s *FileStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vals[key]
	return v, ok
}

func (s *FileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[key] = value
	return s.flush()
}

func (s *FileStorage) Del(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vals, key)
	return s.flush()
}

func (s *FileStorage) flush() error {
	raw, err := json.Marshal(s.vals)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode storage file")
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create storage directory")
	}
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to write storage file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to replace storage file")
	}
	return nil
}

// TokenStore binds a Storage to the fixed token key. It is the only writer of
// that key from this package.
type TokenStore struct {
	storage Storage
	key     string
}

func NewTokenStore(storage Storage, key string) *TokenStore {
	if key == "" {
		key = DefaultTokenKey
	}
	return &TokenStore{storage: storage, key: key}
}

// Token returns the persisted bearer token, or "" when absent.
func (t *TokenStore) Token() string {
	v, _ := t.storage.Get(t.key)
	return v
}

func (t *TokenStore) SetToken(token string) error {
	return t.storage.Set(t.key, token)
}

func (t *TokenStore) Clear() error {
	return t.storage.Del(t.key)
}
