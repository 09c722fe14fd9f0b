// Package jwt signs and verifies the two token variants used by authcore:
// short-lived access tokens and longer-lived refresh tokens, both HMAC-signed
// three-part JWTs discriminated by a "typ" claim.
//
// # Architecture boundaries
//
// This package owns claim layout, signing, and verification. It knows nothing
// about revocation; [Manager.ParseAccess] and [Manager.ParseRefresh] answer
// only "is this token well-signed, unexpired, and of the right type". The
// engine composes the revocation check on top.
//
// # What this package must NOT do
//
//   - Consult any store or perform I/O.
//   - Reuse a JTI: [Issuer] draws every identifier fresh from the CSPRNG.
//   - Let [Manager.Peek] output reach an authorization decision.
package jwt
