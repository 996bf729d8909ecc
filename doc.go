// Package authclient implements the authentication and session-persistence
// core consumed by the LeyInvest dashboard clients: obtaining, storing,
// validating, and discarding proof of identity against the REST backend.
//
// Session storage:
//   - A synchronous Storage tier holds the bearer token as a flat string so
//     the request pipeline can attach credentials without an async round-trip.
//   - An asynchronous structured cache (see the cache subpackage) keeps the
//     full auth record and last-known-good user profiles, bounded by a
//     staleness window after which records are treated as absent.
//
// Failure handling:
//   - Every transport or HTTP failure is run through Classify before it can
//     reach calling code, mapping it to a fixed taxonomy of error kinds with a
//     user-facing message. Raw transport errors never escape the pipeline.
//
// Orchestration:
//   - Orchestrator coordinates login, logout, the three-step registration
//     flow, password flows, and the Google OAuth callback as explicit
//     pending/fulfilled/rejected transitions over a SessionContext, and
//     restores persisted sessions at startup without forcing a fresh login.
package authclient
