package authclient

import (
	"context"
	"strconv"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// Orchestrator combines the request pipeline and both storage tiers into the
// session state transitions the rest of the application observes. Every
// operation is pending -> (fulfilled | rejected) over the SessionContext.
type Orchestrator struct {
	api     *API
	session *SessionContext
	tokens  *TokenStore
	storage Storage
	cache   AuthCache
	routes  *RouteRecorder
	nav     Navigator
	cfg     Config
	logger  Logger
	debug   bool
	now     func() time.Time
}

// NewOrchestrator wires the coordinated auth operations. The cache,
// navigator, and route recorder are optional collaborators; without them the
// corresponding side effects are skipped.
func NewOrchestrator(api *API, session *SessionContext, tokens *TokenStore, storage Storage, cfg Config) *Orchestrator {
	return &Orchestrator{
		api:     api,
		session: session,
		tokens:  tokens,
		storage: storage,
		cfg:     cfg,
		logger:  defLogger{},
		now:     time.Now,
	}
}

func (o *Orchestrator) WithAuthCache(cache AuthCache) *Orchestrator {
	o.cache = cache
	return o
}

func (o *Orchestrator) WithRouteRecorder(routes *RouteRecorder) *Orchestrator {
	o.routes = routes
	return o
}

func (o *Orchestrator) WithNavigator(nav Navigator) *Orchestrator {
	o.nav = nav
	return o
}

func (o *Orchestrator) WithLogger(logger Logger) *Orchestrator {
	if logger != nil {
		o.logger = logger
	}
	return o
}

// WithClock injects a custom clock (useful for tests).
func (o *Orchestrator) WithClock(clock func() time.Time) *Orchestrator {
	if clock != nil {
		o.now = clock
	}
	return o
}

func (o *Orchestrator) WithDebug(debug bool) *Orchestrator {
	o.debug = debug
	return o
}

// Session exposes the session context for subscribers.
func (o *Orchestrator) Session() *SessionContext {
	return o.session
}

// Register submits step one of onboarding. On success the submitted email
// becomes the pending-verification identity; no session is established.
func (o *Orchestrator) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	op := o.session.Begin("auth.register")

	if err := req.Validate(); err != nil {
		return nil, op.Reject(o.validationError(err), false)
	}

	if o.debug {
		o.logger.Debug("register payload: %s", print.MaybePrettyJSON(req))
	}

	resp, err := o.api.Register(ctx, req)
	if err != nil {
		return nil, op.Reject(err, false)
	}

	op.Fulfill(func(s *SessionState) { //nolint:errcheck
		s.RegistrationEmail = req.Email
	})
	return resp, nil
}

// VerifyEmail exchanges the short numeric code tied to the pending email for
// verified status. It does not itself establish a session.
func (o *Orchestrator) VerifyEmail(ctx context.Context, email, code string) (*VerifyEmailResponse, error) {
	op := o.session.Begin("auth.verify_email")

	req := VerifyEmailRequest{Email: email, VerificationCode: code}
	if err := req.Validate(); err != nil {
		return nil, op.Reject(o.validationError(err), false)
	}

	resp, err := o.api.VerifyEmail(ctx, req)
	if err != nil {
		return nil, op.Reject(err, false)
	}

	op.Fulfill(nil) //nolint:errcheck
	return resp, nil
}

// ResendCode re-triggers verification code issuance. Safe to call
// repeatedly; rate limiting is the server's concern and surfaces as a
// classified 429.
func (o *Orchestrator) ResendCode(ctx context.Context, email string) (*MessageResponse, error) {
	op := o.session.Begin("auth.resend_code")

	req := ResendCodeRequest{Email: email}
	if err := req.Validate(); err != nil {
		return nil, op.Reject(o.validationError(err), false)
	}

	resp, err := o.api.ResendCode(ctx, req)
	if err != nil {
		return nil, op.Reject(err, false)
	}

	op.Fulfill(nil) //nolint:errcheck
	return resp, nil
}

// CompleteProfile finalizes onboarding. The response token is optional:
// only when one is present does the session transition to authenticated.
func (o *Orchestrator) CompleteProfile(ctx context.Context, req CompleteProfileRequest) (*CompleteProfileResponse, error) {
	op := o.session.Begin("auth.complete_profile")

	if err := req.Validate(); err != nil {
		return nil, op.Reject(o.validationError(err), false)
	}

	resp, err := o.api.CompleteProfile(ctx, req)
	if err != nil {
		return nil, op.Reject(err, false)
	}

	if resp.Token == "" {
		op.Fulfill(func(s *SessionState) { //nolint:errcheck
			s.RegistrationEmail = ""
		})
		return resp, nil
	}

	if err := o.tokens.SetToken(resp.Token); err != nil {
		o.logger.Warn("failed to persist token after profile completion: %v", err)
	}
	o.clearSignupMarker()

	// Best effort: the completion payload carries no profile, so hydrate the
	// user from the profile endpoint and let the cache self-heal.
	user, uerr := o.api.CurrentUser(ctx)
	if uerr != nil {
		o.logger.Warn("profile fetch after completion failed: %v", uerr)
	} else {
		o.cacheSession(ctx, resp.Token, user)
	}

	op.Fulfill(func(s *SessionState) { //nolint:errcheck
		s.AccessToken = resp.Token
		s.User = user
		s.IsAuthenticated = true
		s.RegistrationEmail = ""
	})
	return resp, nil
}

// Login authenticates with credentials. Success writes the token to both
// storage tiers and populates the user; failure resets identity state and
// surfaces the classified message.
func (o *Orchestrator) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	op := o.session.Begin("auth.login")

	if err := req.Validate(); err != nil {
		return nil, op.Reject(o.validationError(err), true)
	}

	resp, err := o.api.Login(ctx, req)
	if err != nil {
		return nil, op.Reject(err, true)
	}

	if err := o.tokens.SetToken(resp.AccessToken); err != nil {
		o.logger.Warn("failed to persist token after login: %v", err)
	}

	user := &User{
		ID:         resp.UserID,
		Email:      resp.Email,
		Nom:        resp.Nom,
		Prenom:     resp.Prenom,
		IsVerified: resp.IsVerified,
	}
	o.cacheSession(ctx, resp.AccessToken, user)

	op.Fulfill(func(s *SessionState) { //nolint:errcheck
		s.AccessToken = resp.AccessToken
		s.User = user
		s.IsAuthenticated = true
	})
	return resp, nil
}

// Logout never fails from the caller's perspective. The server call is best
// effort; local state and both storage tiers are always cleared, and the
// expired-cache sweep runs as part of teardown.
func (o *Orchestrator) Logout(ctx context.Context) {
	op := o.session.Begin("auth.logout")

	if err := o.api.Logout(ctx); err != nil {
		o.logger.Warn("server logout failed, clearing local state anyway: %v", err)
	}

	o.clearPersisted(ctx)

	op.Fulfill(func(s *SessionState) { //nolint:errcheck
		s.AccessToken = ""
		s.User = nil
		s.IsAuthenticated = false
		s.RegistrationEmail = ""
		s.Error = ""
	})
}

// ChangePassword rotates the password of the authenticated user.
func (o *Orchestrator) ChangePassword(ctx context.Context, oldPassword, newPassword string) (*MessageResponse, error) {
	op := o.session.Begin("auth.change_password")

	req := ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}
	if err := req.Validate(); err != nil {
		return nil, op.Reject(o.validationError(err), false)
	}

	resp, err := o.api.ChangePassword(ctx, req)
	if err != nil {
		return nil, op.Reject(err, false)
	}

	op.Fulfill(nil) //nolint:errcheck
	return resp, nil
}

// ResetPassword requests a reset. The short-lived reset token from the
// response is held in memory until ConfirmResetPassword consumes it; it is
// never persisted.
func (o *Orchestrator) ResetPassword(ctx context.Context, email string) (*ResetPasswordResponse, error) {
	op := o.session.Begin("auth.reset_password")

	req := ResetPasswordRequest{Email: email}
	if err := req.Validate(); err != nil {
		return nil, op.Reject(o.validationError(err), false)
	}

	resp, err := o.api.ResetPassword(ctx, req)
	if err != nil {
		return nil, op.Reject(err, false)
	}

	o.session.SetResetToken(resp.Token)
	op.Fulfill(nil) //nolint:errcheck
	return resp, nil
}

// ConfirmResetPassword consumes the held reset token. After success the
// token is discarded; an invalid or expired token is fatal for this flow and
// callers route back to the forgot-password entry.
func (o *Orchestrator) ConfirmResetPassword(ctx context.Context, password, confirm string) (*MessageResponse, error) {
	op := o.session.Begin("auth.confirm_reset_password")

	token := o.session.ResetToken()
	if token == "" {
		return nil, op.Reject(ErrMissingResetToken, false)
	}

	req := ConfirmResetPasswordRequest{Token: token, Password: password, ConfirmPassword: confirm}
	if err := req.Validate(); err != nil {
		return nil, op.Reject(o.validationError(err), false)
	}

	resp, err := o.api.ConfirmResetPassword(ctx, req)
	if err != nil {
		return nil, op.Reject(err, false)
	}

	o.session.ClearResetToken()
	op.Fulfill(nil) //nolint:errcheck
	return resp, nil
}

// GoogleLoginURL fetches the provider consent URL. When signup is set a
// local marker records the intent; it is only a fallback hint for the
// callback, the server's explicit flag wins.
func (o *Orchestrator) GoogleLoginURL(ctx context.Context, signup bool) (string, error) {
	resp, err := o.api.GoogleLoginURL(ctx)
	if err != nil {
		return "", err
	}

	if signup {
		if serr := o.storage.Set(o.cfg.GetSignupMarkerKey(), "true"); serr != nil {
			o.logger.Warn("failed to persist signup marker: %v", serr)
		}
	} else {
		o.clearSignupMarker()
	}
	return resp.RedirectURL, nil
}

// GoogleCallback exchanges the OAuth authorization code for a session and
// returns the path the caller should land on. A provider error or missing
// code is fatal for the flow and routes back to login rather than leaving
// the user stranded.
func (o *Orchestrator) GoogleCallback(ctx context.Context, code, state, providerErr string) (string, error) {
	op := o.session.Begin("auth.google_callback")

	if providerErr != "" {
		o.navigate(o.cfg.GetLoginPath())
		return o.cfg.GetLoginPath(), op.Reject(ErrAuthorizationDenied, true)
	}
	if code == "" {
		o.navigate(o.cfg.GetLoginPath())
		return o.cfg.GetLoginPath(), op.Reject(ErrMissingAuthCode, true)
	}

	resp, err := o.api.GoogleCallback(ctx, code, state)
	if err != nil {
		o.navigate(o.cfg.GetLoginPath())
		return o.cfg.GetLoginPath(), op.Reject(err, true)
	}

	if err := o.tokens.SetToken(resp.AccessToken); err != nil {
		o.logger.Warn("failed to persist token after oauth callback: %v", err)
	}

	user := &User{
		ID:         resp.UserID,
		Email:      resp.Email,
		Nom:        resp.Nom,
		Prenom:     resp.Prenom,
		IsVerified: resp.IsVerified,
	}
	o.cacheSession(ctx, resp.AccessToken, user)

	// The server's explicit flag decides the route; the locally persisted
	// signup marker is only a fallback hint for backends that omit it.
	needsCompletion := resp.NeedsProfileCompletion || resp.IsNewUser || o.signupMarkerSet()

	var dest string
	if needsCompletion {
		if serr := o.storage.Set(o.cfg.GetSignupMarkerKey(), "true"); serr != nil {
			o.logger.Warn("failed to persist signup marker: %v", serr)
		}
		dest = o.cfg.GetAuthPathPrefix() + "complete-profile"
	} else {
		o.clearSignupMarker()
		dest = o.cfg.GetDefaultLandingPath()
	}

	op.Fulfill(func(s *SessionState) { //nolint:errcheck
		s.AccessToken = resp.AccessToken
		s.User = user
		s.IsAuthenticated = true
	})

	o.navigate(dest)
	return dest, nil
}

// DeleteAccount removes the account server-side, then tears down local state
// exactly like logout.
func (o *Orchestrator) DeleteAccount(ctx context.Context) (*MessageResponse, error) {
	op := o.session.Begin("auth.delete_account")

	resp, err := o.api.DeleteAccount(ctx)
	if err != nil {
		return nil, op.Reject(err, false)
	}

	o.clearPersisted(ctx)

	op.Fulfill(func(s *SessionState) { //nolint:errcheck
		s.AccessToken = ""
		s.User = nil
		s.IsAuthenticated = false
		s.RegistrationEmail = ""
	})
	return resp, nil
}

// RecordRoute persists path as the last visited protected route. Only paths
// visited while authenticated are recorded.
func (o *Orchestrator) RecordRoute(path string) {
	if o.routes == nil {
		return
	}
	state := o.session.Snapshot()
	if !state.IsAuthenticated || state.Loading {
		return
	}
	o.routes.Record(path)
}

func (o *Orchestrator) validationError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
		WithTextCode(KindValidationError).
		WithCode(goerrors.CodeBadRequest)
}

// cacheSession refreshes the asynchronous tier after any operation that
// produced a fresh token and profile.
func (o *Orchestrator) cacheSession(ctx context.Context, token string, user *User) {
	if o.cache == nil {
		return
	}

	rec := &CachedAuth{AccessToken: token, User: user, CachedAt: o.now()}
	if err := o.cache.CacheAuthRecord(ctx, rec); err != nil {
		o.logger.Warn("failed to cache auth record: %v", err)
	}

	if user != nil {
		if err := o.cache.CacheUserData(ctx, userCacheID(user), user); err != nil {
			o.logger.Warn("failed to cache user data: %v", err)
		}
	}
}

// clearPersisted removes every piece of persisted client-side state: the
// synchronous token, the signup marker, the last visited route, and the
// cached auth record, then sweeps expired cache entries.
func (o *Orchestrator) clearPersisted(ctx context.Context) {
	if err := o.tokens.Clear(); err != nil {
		o.logger.Warn("failed to clear token store: %v", err)
	}
	o.clearSignupMarker()

	if o.routes != nil {
		o.routes.Clear()
	}

	if o.cache != nil {
		if err := o.cache.ClearAuth(ctx); err != nil {
			o.logger.Warn("failed to clear auth cache: %v", err)
		}
		if err := o.cache.ClearExpired(ctx, o.cfg.GetCacheMaxAge()); err != nil {
			o.logger.Warn("failed to sweep expired cache records: %v", err)
		}
	}
}

func (o *Orchestrator) signupMarkerSet() bool {
	v, _ := o.storage.Get(o.cfg.GetSignupMarkerKey())
	return v == "true"
}

func (o *Orchestrator) clearSignupMarker() {
	if err := o.storage.Del(o.cfg.GetSignupMarkerKey()); err != nil {
		o.logger.Warn("failed to clear signup marker: %v", err)
	}
}

func (o *Orchestrator) navigate(path string) {
	if o.nav != nil {
		o.nav.Navigate(path)
	}
}

// userCacheID keys the per-user "last known good" cache records.
func userCacheID(u *User) string {
	return strconv.Itoa(u.ID)
}
