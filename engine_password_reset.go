package authcore

import (
	"context"

	internalaudit "github.com/hubforge/authcore/internal/audit"
	"github.com/hubforge/authcore/reset"
)

// BeginPasswordReset generates a reset token for subject, hands the
// plaintext to the mailer exactly once, and returns the ticket the caller
// persists. The plaintext never appears in the ticket, the audit trail, or
// anywhere else.
func (e *Engine) BeginPasswordReset(ctx context.Context, subject string) (*ResetTicket, error) {
	if e.users == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.users.GetUser(ctx, subject)
	if err != nil {
		return nil, err
	}

	token, err := e.resets.Generate()
	if err != nil {
		return nil, err
	}

	hash, err := e.resets.HashToken(token)
	if err != nil {
		return nil, err
	}

	if e.mailer != nil {
		if err := e.mailer.SendResetToken(ctx, user.Email, token); err != nil {
			return nil, err
		}
	}

	e.metrics.Inc(MetricResetRequested)
	e.emit(ctx, internalaudit.EventResetRequested, subject, "", nil)

	return &ResetTicket{
		Subject:   subject,
		Hash:      hash,
		ExpiresAt: e.resets.Expiry(),
	}, nil
}

// CompletePasswordReset consumes a reset ticket. Whatever the outcome, the
// caller must delete the stored hash afterwards; a reset token is single
// use regardless of success. On success the new password hash is persisted
// and every tracked token for the subject is revoked, forcing
// re-authentication everywhere.
func (e *Engine) CompletePasswordReset(ctx context.Context, req CompleteResetRequest) error {
	if e.users == nil {
		return ErrEngineNotReady
	}

	if e.resets.IsExpired(req.ExpiresAt) {
		e.rejectReset(ctx, req.Subject, ErrResetTokenExpired)
		return ErrResetTokenExpired
	}

	if !e.resets.VerifyToken(req.Token, req.StoredHash) {
		e.rejectReset(ctx, req.Subject, ErrResetTokenInvalid)
		return ErrResetTokenInvalid
	}

	if perr := reset.ValidatePassword(req.NewPassword); perr != nil {
		e.rejectReset(ctx, req.Subject, perr)
		return perr
	}

	newHash, err := e.resets.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := e.users.UpdatePasswordHash(ctx, req.Subject, newHash); err != nil {
		return err
	}

	if err := e.RevokeAllForSubject(ctx, req.Subject); err != nil {
		return err
	}

	e.metrics.Inc(MetricResetCompleted)
	e.emit(ctx, internalaudit.EventResetCompleted, req.Subject, "", nil)
	return nil
}

// ValidateNewPassword exposes the password policy to the excluded account
// layer (signup, password change). Nil means the candidate passes; otherwise
// every violated rule is listed.
func (e *Engine) ValidateNewPassword(candidate string) *reset.PolicyError {
	return reset.ValidatePassword(candidate)
}

func (e *Engine) rejectReset(ctx context.Context, subject string, failure error) {
	e.metrics.Inc(MetricResetRejected)
	e.emit(ctx, internalaudit.EventResetRejected, subject, "", failure)
}
