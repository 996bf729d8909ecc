package authclient

import (
	"sync"
)

// SessionState is the authoritative record of identity state observed by the
// rest of the application. IsAuthenticated is derived by the orchestrator,
// never set independently; Loading distinguishes "not logged in" from "don't
// know yet"; Error holds the last operation's user-facing failure message and
// is cleared explicitly, not on the next operation's success.
type SessionState struct {
	AccessToken       string
	User              *User
	IsAuthenticated   bool
	Loading           bool
	Error             string
	RegistrationEmail string
}

// SessionContext owns session state for one client instance. It replaces the
// ambient module-level store the web client grew around: the HTTP pipeline
// and the orchestrator receive it at construction time and it has an explicit
// lifecycle (created empty, populated by login or restoration, cleared on
// logout or irrecoverable restoration failure).
type SessionContext struct {
	mu         sync.RWMutex
	state      SessionState
	resetToken string
	generation uint64

	listeners map[int]func(SessionState)
	nextID    int
	logger    Logger
}

func NewSessionContext() *SessionContext {
	return &SessionContext{
		listeners: map[int]func(SessionState){},
		logger:    defLogger{},
	}
}

// WithLogger overrides the logger used for dropped late arrivals.
func (s *SessionContext) WithLogger(logger Logger) *SessionContext {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *SessionContext) Snapshot() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers a listener invoked with a state copy after every
// change. The returned function cancels the subscription.
func (s *SessionContext) Subscribe(fn func(SessionState)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// ClearError resets the error message. Errors persist across renders until
// the UI acknowledges them.
func (s *SessionContext) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
}

// Begin starts a named operation: loading set, previous error cleared.
func (s *SessionContext) Begin(name string) *Operation {
	s.mu.Lock()
	op := &Operation{
		name:       name,
		phase:      PhaseIdle,
		session:    s,
		generation: s.generation,
	}
	_ = op.transition(PhasePending)
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
	return op
}

// Invalidate force-clears identity state (global 401 handling). Operations
// still in flight observe the generation bump and drop their late results.
func (s *SessionContext) Invalidate() {
	s.mu.Lock()
	s.generation++
	s.state.AccessToken = ""
	s.state.User = nil
	s.state.IsAuthenticated = false
	s.resetToken = ""
	s.mu.Unlock()
	s.notify()
}

// SetResetToken holds the short-lived password-reset token in memory until
// confirmation consumes it. It is never persisted.
func (s *SessionContext) SetResetToken(token string) {
	s.mu.Lock()
	s.resetToken = token
	s.mu.Unlock()
}

// ResetToken returns the held password-reset token, or "".
func (s *SessionContext) ResetToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resetToken
}

// ClearResetToken discards the reset token after confirmation.
func (s *SessionContext) ClearResetToken() {
	s.SetResetToken("")
}

func (s *SessionContext) applyFulfilled(op *Operation, mutate func(*SessionState)) error {
	s.mu.Lock()
	stale := op.generation != s.generation
	s.state.Loading = false
	if !stale && mutate != nil {
		mutate(&s.state)
	}
	s.mu.Unlock()
	s.notify()

	if stale {
		s.logger.Info("dropping late %s result: session was invalidated mid-flight", op.name)
	}
	return nil
}

func (s *SessionContext) applyRejected(op *Operation, err error, resetAuth bool) {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Error = Message(err)
	if resetAuth {
		s.state.AccessToken = ""
		s.state.User = nil
		s.state.IsAuthenticated = false
	}
	s.mu.Unlock()
	s.notify()
}

func (s *SessionContext) notify() {
	s.mu.RLock()
	state := s.state
	fns := make([]func(SessionState), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(state)
	}
}
