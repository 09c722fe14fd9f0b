// Package reset issues and checks single-use, time-boxed password-reset
// tokens, and enforces the new-password policy.
//
// Tokens are opaque random values, not JWTs: the plaintext goes to the user
// exactly once (through the excluded email collaborator) and only its bcrypt
// hash is stored. A reset consumes the token regardless of outcome; storage
// and deletion of the hash belong to the caller.
//
// # What this package must NOT do
//
//   - Persist anything, send email, or log plaintext tokens.
//   - Surface bcrypt mismatches as errors: verification failures are plain
//     false so they cannot be confused with host faults.
package reset
