package authcore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hubforge/authcore/reset"
)

func TestBeginPasswordReset(t *testing.T) {
	ctx := context.Background()
	engine, _, users, mailer := newTestEngine(t)

	ticket, err := engine.BeginPasswordReset(ctx, "user-1")
	if err != nil {
		t.Fatalf("BeginPasswordReset: %v", err)
	}

	if ticket.Subject != "user-1" {
		t.Fatalf("ticket subject = %q", ticket.Subject)
	}
	if time.Until(ticket.ExpiresAt) <= 23*time.Hour {
		t.Fatalf("ticket expiry too close: %v", ticket.ExpiresAt)
	}

	if len(mailer.tokens) != 1 || mailer.recipients[0] != "user@example.com" {
		t.Fatalf("mailer calls: recipients=%v", mailer.recipients)
	}
	token := mailer.tokens[0]
	if token == "" || token == ticket.Hash {
		t.Fatal("plaintext token leaked into the ticket or is empty")
	}

	// The stored hash verifies only the mailed plaintext.
	if !engine.resets.VerifyToken(token, ticket.Hash) {
		t.Fatal("mailed token does not verify against ticket hash")
	}
	if engine.resets.VerifyToken("some-other-token", ticket.Hash) {
		t.Fatal("arbitrary token verified")
	}

	if _, err := engine.BeginPasswordReset(ctx, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown subject = %v, want ErrUserNotFound", err)
	}
	_ = users
}

func TestCompletePasswordReset(t *testing.T) {
	ctx := context.Background()
	engine, store, users, mailer := newTestEngine(t)

	pair, err := engine.IssueTokens(ctx, "user-1", "user@example.com", RoleUser)
	if err != nil {
		t.Fatalf("IssueTokens: %v", err)
	}

	// Track the access token with a lapsed blacklist entry. Revoke-all only
	// reaches tracked JTIs; the reset below must extend this one back to life.
	peeked := engine.tokens.Peek(pair.AccessToken)
	if err := store.Revoke(ctx, peeked.JTI, "user-1", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := engine.Authenticate(ctx, "Bearer "+pair.AccessToken); err != nil {
		t.Fatalf("lapsed entry should not block: %v", err)
	}

	ticket, err := engine.BeginPasswordReset(ctx, "user-1")
	if err != nil {
		t.Fatalf("BeginPasswordReset: %v", err)
	}
	token := mailer.tokens[0]

	err = engine.CompletePasswordReset(ctx, CompleteResetRequest{
		Subject:     "user-1",
		Token:       token,
		StoredHash:  ticket.Hash,
		ExpiresAt:   ticket.ExpiresAt,
		NewPassword: "SecureP@ss1",
	})
	if err != nil {
		t.Fatalf("CompletePasswordReset: %v", err)
	}

	// Password hash persisted and verifiable.
	user, err := users.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if !engine.resets.VerifyPassword("SecureP@ss1", user.PasswordHash) {
		t.Fatal("new password does not verify against stored hash")
	}

	// The tracked token is revoked again, forcing re-authentication.
	if _, err := engine.Authenticate(ctx, "Bearer "+pair.AccessToken); !errors.Is(err, ErrRevoked) {
		t.Fatalf("old access token after reset = %v, want ErrRevoked", err)
	}
}

func TestCompletePasswordResetExpired(t *testing.T) {
	ctx := context.Background()
	engine, _, _, mailer := newTestEngine(t)

	ticket, err := engine.BeginPasswordReset(ctx, "user-1")
	if err != nil {
		t.Fatalf("BeginPasswordReset: %v", err)
	}

	err = engine.CompletePasswordReset(ctx, CompleteResetRequest{
		Subject:     "user-1",
		Token:       mailer.tokens[0],
		StoredHash:  ticket.Hash,
		ExpiresAt:   time.Now().Add(-time.Minute),
		NewPassword: "SecureP@ss1",
	})
	if !errors.Is(err, ErrResetTokenExpired) {
		t.Fatalf("expired ticket = %v, want ErrResetTokenExpired", err)
	}
}

func TestCompletePasswordResetWrongToken(t *testing.T) {
	ctx := context.Background()
	engine, _, _, _ := newTestEngine(t)

	ticket, err := engine.BeginPasswordReset(ctx, "user-1")
	if err != nil {
		t.Fatalf("BeginPasswordReset: %v", err)
	}

	err = engine.CompletePasswordReset(ctx, CompleteResetRequest{
		Subject:     "user-1",
		Token:       "definitely-not-the-token",
		StoredHash:  ticket.Hash,
		ExpiresAt:   ticket.ExpiresAt,
		NewPassword: "SecureP@ss1",
	})
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("wrong token = %v, want ErrResetTokenInvalid", err)
	}
}

func TestCompletePasswordResetWeakPassword(t *testing.T) {
	ctx := context.Background()
	engine, _, _, mailer := newTestEngine(t)

	ticket, err := engine.BeginPasswordReset(ctx, "user-1")
	if err != nil {
		t.Fatalf("BeginPasswordReset: %v", err)
	}

	err = engine.CompletePasswordReset(ctx, CompleteResetRequest{
		Subject:     "user-1",
		Token:       mailer.tokens[0],
		StoredHash:  ticket.Hash,
		ExpiresAt:   ticket.ExpiresAt,
		NewPassword: "short",
	})

	var perr *reset.PolicyError
	if !errors.As(err, &perr) {
		t.Fatalf("weak password error = %v, want *reset.PolicyError", err)
	}
	if len(perr.Violations) == 0 {
		t.Fatal("policy error carries no violations")
	}
}

func TestValidateNewPassword(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	if perr := engine.ValidateNewPassword("SecureP@ss1"); perr != nil {
		t.Fatalf("valid password rejected: %v", perr)
	}
	if perr := engine.ValidateNewPassword("short"); perr == nil {
		t.Fatal("weak password accepted")
	}
}
