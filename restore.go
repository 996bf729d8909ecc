package authclient

import (
	"context"
)

// RestorePhase identifies where the startup restoration machine is. The
// machine runs once per process start and must reach a terminal outcome
// before any route-guarded view renders real content; guards observing
// Loading render a neutral waiting state.
type RestorePhase string

const (
	RestoreCheckSources RestorePhase = "check_sources"
	RestoreReconcile    RestorePhase = "reconcile"
	RestoreValidate     RestorePhase = "validate"
	RestoreResumeRoute  RestorePhase = "resume_route"
	RestoreDone         RestorePhase = "done"
)

var restoreTransitions = map[RestorePhase]map[RestorePhase]struct{}{
	RestoreCheckSources: {
		RestoreReconcile: {},
		RestoreDone:      {},
	},
	RestoreReconcile: {
		RestoreValidate: {},
		RestoreDone:     {},
	},
	RestoreValidate: {
		RestoreResumeRoute: {},
		RestoreDone:        {},
	},
	RestoreResumeRoute: {
		RestoreDone: {},
	},
}

// RestoreResult reports the terminal outcome of session restoration.
type RestoreResult struct {
	Authenticated bool
	// ResumedRoute is the last-visited route navigation target, when route
	// continuity applied.
	ResumedRoute string
}

type restoreRun struct {
	phase  RestorePhase
	logger Logger
}

func (r *restoreRun) advance(to RestorePhase) {
	if _, ok := restoreTransitions[r.phase][to]; !ok {
		r.logger.Error("invalid restore phase transition %s -> %s", r.phase, to)
		return
	}
	r.phase = to
}

// Restore reconstructs authenticated state from persisted data alone. With
// no persisted token in either tier it terminates unauthenticated without a
// single network call. Failures here are never surfaced as session errors: a
// rejected validation simply means "not logged in".
func (o *Orchestrator) Restore(ctx context.Context) RestoreResult {
	op := o.session.Begin("session.restore")
	run := &restoreRun{phase: RestoreCheckSources, logger: o.logger}

	// Opportunistic sweep so a stale device cannot keep presenting ancient
	// records past the staleness bound.
	if o.cache != nil {
		if err := o.cache.ClearExpired(ctx, o.cfg.GetCacheMaxAge()); err != nil {
			o.logger.Warn("startup cache sweep failed: %v", err)
		}
	}

	token, cached := o.checkSources(ctx)
	if token == "" && cached == nil {
		run.advance(RestoreDone)
		op.Fulfill(nil) //nolint:errcheck
		return RestoreResult{}
	}

	run.advance(RestoreReconcile)
	token = o.reconcile(token, cached)

	if token == "" || TokenExpired(token, o.now()) {
		o.clearTiers(ctx)
		run.advance(RestoreDone)
		op.Fulfill(nil) //nolint:errcheck
		return RestoreResult{}
	}

	run.advance(RestoreValidate)
	user, err := o.api.CurrentUser(ctx)
	if err != nil {
		// Including 401: silently treated as "not authenticated", never
		// shown as an error.
		o.logger.Info("session validation failed, clearing persisted state: %v", err)
		o.clearTiers(ctx)
		run.advance(RestoreDone)
		op.Fulfill(func(s *SessionState) { //nolint:errcheck
			s.AccessToken = ""
			s.User = nil
			s.IsAuthenticated = false
		})
		return RestoreResult{}
	}

	// Self-healing: whatever shape the cache was in, it now holds the
	// freshly fetched profile.
	o.cacheSession(ctx, token, user)

	op.Fulfill(func(s *SessionState) { //nolint:errcheck
		s.AccessToken = token
		s.User = user
		s.IsAuthenticated = true
	})

	run.advance(RestoreResumeRoute)
	resumed := o.resumeRoute()
	run.advance(RestoreDone)

	return RestoreResult{Authenticated: true, ResumedRoute: resumed}
}

// checkSources reads both tiers. The cached record is subject to the
// staleness bound: past it the record is treated as absent data.
func (o *Orchestrator) checkSources(ctx context.Context) (string, *CachedAuth) {
	token := o.tokens.Token()

	var cached *CachedAuth
	if o.cache != nil {
		rec, err := o.cache.AuthRecord(ctx)
		if err != nil {
			o.logger.Warn("failed to read cached auth record: %v", err)
		} else if rec != nil && o.now().Sub(rec.CachedAt) <= o.cfg.GetCacheMaxAge() {
			cached = rec
		}
	}
	return token, cached
}

// reconcile applies the tier invariant: the synchronous tier wins when both
// hold a token; a cache-only token is promoted into the synchronous tier.
func (o *Orchestrator) reconcile(token string, cached *CachedAuth) string {
	if token != "" {
		return token
	}
	if cached == nil || cached.AccessToken == "" {
		return ""
	}
	if err := o.tokens.SetToken(cached.AccessToken); err != nil {
		o.logger.Warn("failed to promote cached token: %v", err)
	}
	return cached.AccessToken
}

func (o *Orchestrator) clearTiers(ctx context.Context) {
	if err := o.tokens.Clear(); err != nil {
		o.logger.Warn("failed to clear token store: %v", err)
	}
	if o.cache != nil {
		if err := o.cache.ClearAuth(ctx); err != nil {
			o.logger.Warn("failed to clear auth cache: %v", err)
		}
	}
}

// resumeRoute returns the user to the last protected route they viewed, when
// one was recorded, it differs from the current path, and it is not an
// auth-page path.
func (o *Orchestrator) resumeRoute() string {
	if o.routes == nil || o.nav == nil {
		return ""
	}

	last := o.routes.Last()
	if last == "" || last == o.nav.CurrentPath() || o.routes.IsAuthPath(last) {
		return ""
	}

	o.nav.Navigate(last)
	return last
}
