package authcore

import (
	"errors"

	"github.com/hubforge/authcore/jwt"
)

var (
	// ErrMissingHeader reports an absent Authorization header.
	ErrMissingHeader = errors.New("authorization header missing")
	// ErrBadFormat reports an Authorization header that is not exactly
	// "Bearer <token>".
	ErrBadFormat = errors.New("authorization header malformed")
	// ErrRevoked reports a token whose signature, expiry, and type are all
	// valid but whose JTI is active in the revocation store.
	ErrRevoked = errors.New("token revoked")
	// ErrForbidden reports a valid identity that fails a role requirement.
	ErrForbidden = errors.New("role requirement not satisfied")
	// ErrUserNotFound reports that the persistence collaborator has no record
	// for the subject.
	ErrUserNotFound = errors.New("user not found")
	// ErrResetTokenInvalid reports a password-reset token that does not match
	// the stored hash.
	ErrResetTokenInvalid = errors.New("password reset token invalid")
	// ErrResetTokenExpired reports a password-reset token past its 24h
	// window.
	ErrResetTokenExpired = errors.New("password reset token expired")
	// ErrEngineNotReady reports use of an Engine whose required collaborator
	// was never wired through the builder.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// Token verification failures are surfaced under the jwt package's taxonomy;
// re-exported here so the excluded HTTP layer maps status codes against one
// import.
var (
	// ErrTokenMalformed mirrors [jwt.ErrMalformed].
	ErrTokenMalformed = jwt.ErrMalformed
	// ErrTokenSignature mirrors [jwt.ErrInvalidSignature].
	ErrTokenSignature = jwt.ErrInvalidSignature
	// ErrTokenExpired mirrors [jwt.ErrExpired].
	ErrTokenExpired = jwt.ErrExpired
	// ErrTokenWrongType mirrors [jwt.ErrWrongType].
	ErrTokenWrongType = jwt.ErrWrongType
)
