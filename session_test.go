package authclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authclient "github.com/leyinvest/go-auth-client"
)

func TestSnapshotIsACopy(t *testing.T) {
	session := authclient.NewSessionContext()

	state := session.Snapshot()
	state.AccessToken = "mutated locally"

	assert.Equal(t, "", session.Snapshot().AccessToken)
}

func TestSubscribeAndCancel(t *testing.T) {
	session := authclient.NewSessionContext()

	var seen []authclient.SessionState
	cancel := session.Subscribe(func(s authclient.SessionState) {
		seen = append(seen, s)
	})

	session.Begin("auth.login")
	require.Len(t, seen, 1)
	assert.True(t, seen[0].Loading)

	cancel()
	session.ClearError()
	assert.Len(t, seen, 1)
}

func TestInvalidateDropsLateFulfill(t *testing.T) {
	session := authclient.NewSessionContext()

	// A login is in flight when a forced invalidation lands (global 401).
	op := session.Begin("auth.login")
	session.Invalidate()

	err := op.Fulfill(func(s *authclient.SessionState) {
		s.AccessToken = "jwt.token.value"
		s.User = &authclient.User{ID: 1}
		s.IsAuthenticated = true
	})
	require.NoError(t, err)

	// The late success must not resurrect the cleared session.
	state := session.Snapshot()
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)
	assert.Equal(t, "", state.AccessToken)
	assert.False(t, state.Loading)
}

func TestInvalidateClearsIdentityAndResetToken(t *testing.T) {
	session := authclient.NewSessionContext()

	op := session.Begin("auth.login")
	op.Fulfill(func(s *authclient.SessionState) { //nolint:errcheck
		s.AccessToken = "jwt.token.value"
		s.IsAuthenticated = true
	})
	session.SetResetToken("reset-token")

	session.Invalidate()

	state := session.Snapshot()
	assert.False(t, state.IsAuthenticated)
	assert.Equal(t, "", state.AccessToken)
	assert.Equal(t, "", session.ResetToken())
}

func TestOperationsAfterInvalidateApplyNormally(t *testing.T) {
	session := authclient.NewSessionContext()
	session.Invalidate()

	op := session.Begin("auth.login")
	op.Fulfill(func(s *authclient.SessionState) { //nolint:errcheck
		s.IsAuthenticated = true
	})

	assert.True(t, session.Snapshot().IsAuthenticated)
}

func TestClearError(t *testing.T) {
	session := authclient.NewSessionContext()

	op := session.Begin("auth.login")
	op.Reject(assertableError("boom"), false) //nolint:errcheck
	require.Equal(t, "boom", session.Snapshot().Error)

	session.ClearError()
	assert.Equal(t, "", session.Snapshot().Error)
}

func TestResetTokenLifecycle(t *testing.T) {
	session := authclient.NewSessionContext()

	assert.Equal(t, "", session.ResetToken())

	session.SetResetToken("reset-token")
	assert.Equal(t, "reset-token", session.ResetToken())

	session.ClearResetToken()
	assert.Equal(t, "", session.ResetToken())
}

type assertableError string

func (e assertableError) Error() string { return string(e) }
