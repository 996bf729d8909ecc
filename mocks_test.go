package authclient_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	authclient "github.com/leyinvest/go-auth-client"
)

// stubNavigator records navigation requests.
type stubNavigator struct {
	mu      sync.Mutex
	path    string
	visited []string
}

func (n *stubNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

func (n *stubNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.path = path
	n.visited = append(n.visited, path)
}

func (n *stubNavigator) visits() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.visited...)
}

// memCache is an in-memory AuthCache for orchestrator tests.
type memCache struct {
	mu            sync.Mutex
	auth          *authclient.CachedAuth
	users         map[string]*authclient.User
	clearedAuth   int
	clearedSweeps int
}

func newMemCache() *memCache {
	return &memCache{users: map[string]*authclient.User{}}
}

func (c *memCache) CacheAuthRecord(_ context.Context, rec *authclient.CachedAuth) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auth = rec
	return nil
}

func (c *memCache) AuthRecord(_ context.Context) (*authclient.CachedAuth, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.auth, nil
}

func (c *memCache) CacheUserData(_ context.Context, userID string, user *authclient.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[userID] = user
	return nil
}

func (c *memCache) UserData(_ context.Context, userID string) (*authclient.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.users[userID], nil
}

func (c *memCache) ClearAuth(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auth = nil
	c.clearedAuth++
	return nil
}

func (c *memCache) ClearExpired(_ context.Context, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearedSweeps++
	return nil
}

func (c *memCache) authRecord() *authclient.CachedAuth {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.auth
}

// scriptedTransport is a RoundTripper whose responses come from a script
// function. It records every request it sees.
type scriptedTransport struct {
	mu       sync.Mutex
	requests []*http.Request
	respond  func(call int, r *http.Request) (*http.Response, error)
}

func (t *scriptedTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.mu.Lock()
	call := len(t.requests)
	t.requests = append(t.requests, r)
	respond := t.respond
	t.mu.Unlock()
	return respond(call, r)
}

func (t *scriptedTransport) calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.requests)
}

func (t *scriptedTransport) request(i int) *http.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.requests[i]
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

// timeoutError satisfies net.Error with Timeout() == true.
type timeoutError struct{}

func (timeoutError) Error() string   { return "timeout awaiting response headers" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }
