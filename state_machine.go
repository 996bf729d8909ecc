package authclient

import (
	goerrors "github.com/goliatone/go-errors"
)

// OperationPhase models the lifecycle of a single session-affecting
// operation. Every operation is an explicit transition idle -> pending ->
// (fulfilled | rejected); there is no other path.
type OperationPhase string

const (
	PhaseIdle      OperationPhase = "idle"
	PhasePending   OperationPhase = "pending"
	PhaseFulfilled OperationPhase = "fulfilled"
	PhaseRejected  OperationPhase = "rejected"
)

// ErrInvalidPhaseTransition is returned when an operation attempts a phase
// change the transition table does not allow, e.g. fulfilling twice.
var ErrInvalidPhaseTransition = goerrors.New("invalid operation phase transition", goerrors.CategoryConflict).
	WithTextCode("INVALID_OPERATION_TRANSITION").
	WithCode(goerrors.CodeConflict)

var phaseTransitions = map[OperationPhase]map[OperationPhase]struct{}{
	PhaseIdle: {
		PhasePending: {},
	},
	PhasePending: {
		PhaseFulfilled: {},
		PhaseRejected:  {},
	},
}

func canTransitionPhase(from, to OperationPhase) bool {
	allowed, ok := phaseTransitions[from]
	if !ok {
		return false
	}
	_, exists := allowed[to]
	return exists
}

// Operation is one in-flight session transition. Operations are created via
// SessionContext.Begin and resolved exactly once.
type Operation struct {
	name    string
	phase   OperationPhase
	session *SessionContext

	// generation observed at Begin; a forced session invalidation bumps the
	// session generation so a late-arriving success is not applied on top of
	// a cleared session.
	generation uint64
}

// Name identifies the operation for logging.
func (op *Operation) Name() string { return op.name }

// Phase returns the current lifecycle phase.
func (op *Operation) Phase() OperationPhase { return op.phase }

func (op *Operation) transition(to OperationPhase) error {
	if !canTransitionPhase(op.phase, to) {
		return ErrInvalidPhaseTransition.WithMetadata(map[string]any{
			"operation": op.name,
			"from":      op.phase,
			"to":        to,
		})
	}
	op.phase = to
	return nil
}

// Fulfill resolves the operation, applying mutate to session state with
// loading cleared. When the session was invalidated while the operation was
// in flight the mutation is dropped; a success that arrives after a forced
// logout must not resurrect the session.
func (op *Operation) Fulfill(mutate func(*SessionState)) error {
	if err := op.transition(PhaseFulfilled); err != nil {
		return err
	}
	return op.session.applyFulfilled(op, mutate)
}

// Reject resolves the operation with a classified error. The user-facing
// message lands in session error state; when resetAuth is set the identity
// fields are reset to unauthenticated as well (login/restoration semantics).
func (op *Operation) Reject(err error, resetAuth bool) error {
	if terr := op.transition(PhaseRejected); terr != nil {
		return terr
	}
	op.session.applyRejected(op, err, resetAuth)
	return err
}
