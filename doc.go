// Package authcore is the token lifecycle core of the content-hub backend:
// issuance of short-lived access tokens and longer-lived refresh tokens,
// cryptographic verification, an in-process revocation blacklist with
// periodic eviction, and single-use password-reset tokens.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. HTTP routing, resource CRUD, email
// delivery, and the document store are external collaborators: the routing
// layer calls [Engine.Authenticate] per request, the account layer calls
// issuance and revocation, and persistence is reached only through the
// narrow [UserProvider] interface.
//
// # Deployment caveat
//
// With the default in-memory revocation store, a token revoked on one host
// instance stays valid on the others until its natural expiry. Multi-
// instance deployments should pass [Builder.WithRedis], which keeps the
// store contract intact on a shared backend.
//
// # What this package must NOT do
//
//   - Perform network or disk I/O on the Authenticate hot path (the Redis
//     store is the deliberate exception, chosen by the deployer).
//   - Persist or log plaintext reset tokens.
//   - Treat verification failures as faults: every rejection is a typed
//     error the HTTP layer maps to a status code.
package authcore
