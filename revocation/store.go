package revocation

import (
	"context"
	"time"
)

// Entry tracks one revoked JTI. Created on revocation, extended (never
// shortened) by a bulk revoke-all, removed by the sweep once ExpiresAt has
// passed. ExpiresAt is a superset bound on the underlying token's own
// lifetime, so a stale unswept entry can never falsely authorize a token
// that is independently expired.
type Entry struct {
	JTI       string
	Subject   string
	ExpiresAt time.Time
}

// Store is the revocation contract. A token identified by (jti, subject) is
// revoked iff an entry exists for that JTI, belongs to that subject, and its
// expiration has not yet passed.
//
// Implementations must keep the entry set and the per-subject index mutually
// consistent under concurrent Revoke/RevokeAllForSubject/IsRevoked/Sweep
// calls: a caller must never observe an index member pointing at a deleted
// entry.
type Store interface {
	// Revoke inserts or overwrites the entry for jti and indexes it under
	// subject.
	Revoke(ctx context.Context, jti, subject string, expiresAt time.Time) error

	// RevokeAllForSubject extends every entry currently indexed under subject
	// to expiresAt, never shortening one that already lives longer. This is
	// the mechanism behind "log out everywhere" and forced re-authentication
	// after a password change. Callers pass now plus the maximum supported
	// token lifetime so even unseen but already-tracked tokens are covered.
	RevokeAllForSubject(ctx context.Context, subject string, expiresAt time.Time) error

	// IsRevoked reports whether (jti, subject) is currently revoked. An entry
	// whose expiration has passed counts as not revoked even before the next
	// sweep.
	IsRevoked(ctx context.Context, jti, subject string) (bool, error)

	// Sweep removes every entry whose expiration has passed, prunes
	// now-empty index sets, and returns the number of entries removed. It
	// never removes a live entry. Safe to call synchronously in tests and
	// from a periodic background job.
	Sweep(ctx context.Context) (int, error)

	// Size returns the number of tracked entries. Introspection for tests.
	Size(ctx context.Context) (int, error)

	// Clear drops all state. Introspection/reset for tests.
	Clear(ctx context.Context) error
}
