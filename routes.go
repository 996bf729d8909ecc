package authclient

import "strings"

// RouteRecorder keeps the most recent protected path visited while
// authenticated, so an incidental page reload can put the user back where
// they were instead of the default landing page. Auth-page paths are never
// recorded.
type RouteRecorder struct {
	storage    Storage
	key        string
	authPrefix string
}

func NewRouteRecorder(storage Storage, cfg Config) *RouteRecorder {
	return &RouteRecorder{
		storage:    storage,
		key:        cfg.GetRouteKey(),
		authPrefix: cfg.GetAuthPathPrefix(),
	}
}

// Record persists path as the last visited route. Empty and auth-page paths
// are ignored.
func (r *RouteRecorder) Record(path string) {
	if path == "" || r.IsAuthPath(path) {
		return
	}
	_ = r.storage.Set(r.key, path)
}

// Last returns the recorded route, or "" when none was recorded.
func (r *RouteRecorder) Last() string {
	v, _ := r.storage.Get(r.key)
	return v
}

func (r *RouteRecorder) Clear() {
	_ = r.storage.Del(r.key)
}

// IsAuthPath reports whether path belongs to the auth screens (login,
// registration, password flows).
func (r *RouteRecorder) IsAuthPath(path string) bool {
	return strings.HasPrefix(path, r.authPrefix)
}
