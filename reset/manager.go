package reset

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	tokenBytes = 32

	// MinCost is the lowest accepted bcrypt cost factor.
	MinCost = 10
	// DefaultCost is the bcrypt cost used when callers have no opinion.
	DefaultCost = 12
	// DefaultTTL is the reset-token lifetime.
	DefaultTTL = 24 * time.Hour
)

// Manager issues and checks single-use password-reset tokens. The plaintext
// is handed out exactly once and never persisted; only the bcrypt hash is
// stored by the caller. Decoupled from the JWT claims entirely.
type Manager struct {
	cost int
	ttl  time.Duration
}

// NewManager validates the cost factor and TTL.
func NewManager(cost int, ttl time.Duration) (*Manager, error) {
	if cost < MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	if ttl <= 0 {
		return nil, errors.New("reset ttl must be positive")
	}

	return &Manager{cost: cost, ttl: ttl}, nil
}

// Generate returns a fresh high-entropy token: 32 bytes from the CSPRNG,
// base64url-encoded. Never derived from user data. A generation failure
// means the host is out of entropy and is the caller's fatal problem.
func (m *Manager) Generate() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// HashToken produces the salted bcrypt hash stored in place of the
// plaintext.
func (m *Manager) HashToken(token string) (string, error) {
	if token == "" {
		return "", errors.New("cannot hash empty token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(token), m.cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifyToken reports whether token matches hash through bcrypt's own
// constant-time comparison. Empty or malformed inputs yield false, never an
// error.
func (m *Manager) VerifyToken(token, hash string) bool {
	if token == "" || hash == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}

// HashPassword hashes an account password with the same cost discipline as
// reset tokens.
func (m *Manager) HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("cannot hash empty password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifyPassword is the password-side counterpart of VerifyToken.
func (m *Manager) VerifyPassword(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Expiry returns the expiration timestamp for a token generated now.
func (m *Manager) Expiry() time.Time {
	return time.Now().Add(m.ttl)
}

// IsExpired reports whether a stored expiration has passed.
func (m *Manager) IsExpired(expiresAt time.Time) bool {
	return expiresAt.Before(time.Now())
}
