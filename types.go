package authcore

import (
	"context"
	"io"
	"time"

	internalaudit "github.com/hubforge/authcore/internal/audit"
	"github.com/hubforge/authcore/jwt"
)

// Roles understood by the engine. The model is deliberately binary: an admin
// satisfies every role requirement, a user satisfies only "user".
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Identity is the authenticated caller produced by [Engine.Authenticate].
type Identity struct {
	Subject string
	Email   string
	Role    string
}

// TokenPair is re-exported from the jwt package for callers that only import
// the root.
type TokenPair = jwt.TokenPair

// UserRecord is what the persistence collaborator returns for a subject.
type UserRecord struct {
	Subject      string
	Email        string
	Role         string
	PasswordHash string
}

// UserProvider is the narrow interface to the excluded document store. The
// engine never touches persistence except through it: lookup for refresh and
// reset flows, and one write to land a new password hash.
type UserProvider interface {
	GetUser(ctx context.Context, subject string) (UserRecord, error)
	UpdatePasswordHash(ctx context.Context, subject, newHash string) error
}

// Mailer is the interface to the excluded email-delivery component. The
// engine produces the plaintext reset token and hands it over exactly once;
// it never sends anything itself.
type Mailer interface {
	SendResetToken(ctx context.Context, recipient, token string) error
}

// ResetTicket is returned by [Engine.BeginPasswordReset]. The caller
// persists Hash and ExpiresAt against the subject; the plaintext has already
// gone to the mailer and is not included here.
type ResetTicket struct {
	Subject   string
	Hash      string
	ExpiresAt time.Time
}

// CompleteResetRequest carries everything [Engine.CompletePasswordReset]
// needs: the user-presented plaintext, the stored hash and expiry the caller
// loaded from persistence, and the candidate password.
type CompleteResetRequest struct {
	Subject     string
	Token       string
	StoredHash  string
	ExpiresAt   time.Time
	NewPassword string
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
