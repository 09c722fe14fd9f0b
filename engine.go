package authcore

import (
	"context"
	"fmt"
	"strings"
	"time"

	internalaudit "github.com/hubforge/authcore/internal/audit"
	"github.com/hubforge/authcore/jwt"
	"github.com/hubforge/authcore/revocation"
	"github.com/hubforge/authcore/reset"
)

// Engine is the single orchestration point the excluded HTTP and
// account-management layers call into. Construct one per process through
// [Builder.Build], inject it, and call [Engine.Close] during shutdown to
// stop the background sweep and drain the audit dispatcher. All methods are
// safe for concurrent use.
type Engine struct {
	config      Config
	tokens      *jwt.Manager
	issuer      *jwt.Issuer
	revocations revocation.Store
	resets      *reset.Manager
	users       UserProvider
	mailer      Mailer
	audit       *internalaudit.Dispatcher
	metrics     *Metrics
	sweeper     *revocation.Sweeper
}

// Authenticate turns an Authorization header into an [Identity] or a typed
// failure. The header must be exactly "Bearer <token>"; the token must be
// well-signed, unexpired, of access type, and not revoked for its subject.
func (e *Engine) Authenticate(ctx context.Context, header string) (*Identity, error) {
	if header == "" {
		return nil, ErrMissingHeader
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, ErrBadFormat
	}

	claims, err := e.tokens.ParseAccess(parts[1])
	if err != nil {
		e.metrics.Inc(MetricAuthFailure)
		e.emit(ctx, internalaudit.EventAuthRejected, "", "", err)
		return nil, err
	}

	revoked, err := e.revocations.IsRevoked(ctx, claims.ID, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		e.metrics.Inc(MetricAuthRevoked)
		e.emit(ctx, internalaudit.EventAuthRejected, claims.Subject, claims.ID, ErrRevoked)
		return nil, ErrRevoked
	}

	e.metrics.Inc(MetricAuthSuccess)
	return &Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
	}, nil
}

// OptionalAuthenticate runs the same path as Authenticate but swallows every
// failure into nil. For endpoints where authentication is advisory.
func (e *Engine) OptionalAuthenticate(ctx context.Context, header string) *Identity {
	identity, err := e.Authenticate(ctx, header)
	if err != nil {
		return nil
	}
	return identity
}

// RequireRole is a pure predicate: no I/O, no clock. An admin identity
// satisfies any requirement.
func (e *Engine) RequireRole(identity *Identity, role string) error {
	if identity == nil {
		return ErrForbidden
	}
	if identity.Role == role || identity.Role == RoleAdmin {
		return nil
	}
	return ErrForbidden
}

// IssueTokens produces one access/refresh pair for an authenticated user.
// Called by the excluded login handler; it never consults the revocation
// store.
func (e *Engine) IssueTokens(ctx context.Context, subject, email, role string) (*TokenPair, error) {
	pair, err := e.issuer.IssuePair(subject, email, role)
	if err != nil {
		return nil, err
	}

	e.metrics.Inc(MetricPairsIssued)
	e.emit(ctx, internalaudit.EventTokensIssued, subject, "", nil)
	return pair, nil
}

// Refresh exchanges a still-valid refresh token for a fresh pair in the same
// token family. The presented token's JTI is checked against the revocation
// store; the subject's current email and role come from the persistence
// collaborator. The old refresh token is not invalidated here; there is no
// rotation or reuse detection.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := e.tokens.ParseRefresh(refreshToken)
	if err != nil {
		e.metrics.Inc(MetricRefreshFailure)
		return nil, err
	}

	revoked, err := e.revocations.IsRevoked(ctx, claims.ID, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		e.metrics.Inc(MetricRefreshFailure)
		e.emit(ctx, internalaudit.EventAuthRejected, claims.Subject, claims.ID, ErrRevoked)
		return nil, ErrRevoked
	}

	if e.users == nil {
		return nil, ErrEngineNotReady
	}
	user, err := e.users.GetUser(ctx, claims.Subject)
	if err != nil {
		e.metrics.Inc(MetricRefreshFailure)
		return nil, err
	}

	pair, err := e.issuer.Renew(user.Subject, user.Email, user.Role, claims.Family)
	if err != nil {
		return nil, err
	}

	e.metrics.Inc(MetricRefreshSuccess)
	e.emit(ctx, internalaudit.EventTokensRefreshed, claims.Subject, claims.ID, nil)
	return pair, nil
}

// RevokeToken blacklists the presented token by JTI. The claims are peeked
// without verification: the token is about to be treated as invalid either
// way, and logout must work even for a token that just expired. The entry's
// expiration is the token's own expiry, falling back to the refresh lifetime
// when unreadable, so the blacklist never outlives its purpose.
func (e *Engine) RevokeToken(ctx context.Context, token string) error {
	peeked := e.tokens.Peek(token)
	if peeked == nil || peeked.JTI == "" {
		return ErrTokenMalformed
	}

	expiresAt := peeked.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(e.config.RefreshTTL)
	}

	if err := e.revocations.Revoke(ctx, peeked.JTI, peeked.Subject, expiresAt); err != nil {
		return err
	}

	e.metrics.Inc(MetricRevocations)
	e.emit(ctx, internalaudit.EventTokenRevoked, peeked.Subject, peeked.JTI, nil)
	return nil
}

// RevokeAllForSubject force-expires every tracked token for subject,
// "log out everywhere". Entries are extended to now plus the refresh
// lifetime, the longest any outstanding token could still live.
func (e *Engine) RevokeAllForSubject(ctx context.Context, subject string) error {
	expiresAt := time.Now().Add(e.config.RefreshTTL)
	if err := e.revocations.RevokeAllForSubject(ctx, subject, expiresAt); err != nil {
		return err
	}

	e.metrics.Inc(MetricSubjectRevocations)
	e.emit(ctx, internalaudit.EventSubjectRevoked, subject, "", nil)
	return nil
}

// MetricsSnapshot returns a copy of the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// Close stops the background sweep and drains the audit dispatcher.
// Idempotent per collaborator.
func (e *Engine) Close() error {
	var err error
	if e.sweeper != nil {
		err = e.sweeper.Close()
	}
	e.audit.Close()
	return err
}

func (e *Engine) emit(ctx context.Context, eventType, subject, jti string, failure error) {
	if e.audit == nil {
		return
	}

	event := internalaudit.Event{
		Timestamp: time.Now(),
		EventType: eventType,
		Subject:   subject,
		JTI:       jti,
		Success:   failure == nil,
	}
	if failure != nil {
		event.Error = failure.Error()
	}

	e.audit.Emit(ctx, event)
}
