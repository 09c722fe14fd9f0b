package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TypeAccess and TypeRefresh are the values of the "typ" claim. Every token
// signed by a Manager carries exactly one of them, and every parse path
// requires the one it was asked for; the two namespaces are never
// interchangeable.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

const minSecretBytes = 32

var (
	// ErrMalformed reports a token that is not a well-formed JWT at all.
	ErrMalformed = errors.New("token malformed")
	// ErrInvalidSignature reports a well-formed token whose signature does not
	// verify against the configured secret.
	ErrInvalidSignature = errors.New("token signature invalid")
	// ErrExpired reports a correctly signed token whose expiry has passed.
	// Callers typically map this to a refresh prompt rather than a re-login.
	ErrExpired = errors.New("token expired")
	// ErrWrongType reports a token whose signature and expiry are valid but
	// whose "typ" claim does not match what the caller required.
	ErrWrongType = errors.New("token type mismatch")
)

// Config holds the signing parameters for a [Manager]. Instances are
// configured during initialization and treated as immutable afterwards.
type Config struct {
	// Secret is the HMAC-SHA256 signing key. Must be at least 32 bytes.
	Secret []byte
	// Issuer is stamped into the "iss" claim and enforced on parse when set.
	Issuer string
	// Leeway tolerated when validating time-based claims. At most 2 minutes.
	Leeway time.Duration
}

// Manager signs and verifies the two token variants. It is stateless apart
// from its configuration and safe for concurrent use.
type Manager struct {
	config Config
}

// AccessClaims is the payload of a short-lived access token. The JTI lives in
// RegisteredClaims.ID and the subject in RegisteredClaims.Subject. Immutable
// once signed.
type AccessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a long-lived refresh token. Family groups
// every refresh token descended from one login session. A refresh token's
// JTI is distinct from any access token's JTI.
type RefreshClaims struct {
	Family string `json:"fam"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

// PeekedClaims is the unverified projection returned by [Manager.Peek]. It
// carries only the fields needed to revoke a token and must never be used to
// authorize anything.
type PeekedClaims struct {
	Subject   string
	JTI       string
	ExpiresAt time.Time
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < minSecretBytes {
		return nil, errors.New("signing secret must be at least 32 bytes")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	return &Manager{config: cfg}, nil
}

// CreateAccess signs c with the configured secret, stamping type, issued-at,
// and an expiry of now+ttl. The caller supplies subject, email, role, and
// JTI; signing is the only side effect.
func (m *Manager) CreateAccess(c AccessClaims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("access ttl must be positive")
	}

	now := time.Now()
	c.Type = TypeAccess
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if m.config.Issuer != "" {
		c.Issuer = m.config.Issuer
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.config.Secret)
}

// CreateRefresh signs c as a refresh token. Same contract as CreateAccess.
func (m *Manager) CreateRefresh(c RefreshClaims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("refresh ttl must be positive")
	}

	now := time.Now()
	c.Type = TypeRefresh
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if m.config.Issuer != "" {
		c.Issuer = m.config.Issuer
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.config.Secret)
}

// ParseAccess verifies signature and expiry, then requires typ == "access".
// It returns one of [ErrMalformed], [ErrInvalidSignature], [ErrExpired], or
// [ErrWrongType]. Revocation is not checked here; that concern is composed
// by the engine so this path stays unit-testable on its own.
func (m *Manager) ParseAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.Type != TypeAccess {
		return nil, ErrWrongType
	}

	return claims, nil
}

// ParseRefresh is the refresh-side counterpart of ParseAccess, requiring
// typ == "refresh".
func (m *Manager) ParseRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := m.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.Type != TypeRefresh {
		return nil, ErrWrongType
	}

	return claims, nil
}

// Peek decodes the claims of tokenStr without verifying signature or expiry.
// It exists so an about-to-lapse token can be revoked by JTI; it returns nil
// for anything that does not even parse.
func (m *Manager) Peek(tokenStr string) *PeekedClaims {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil
	}

	peeked := &PeekedClaims{
		Subject: claims.Subject,
		JTI:     claims.ID,
	}
	if claims.ExpiresAt != nil {
		peeked.ExpiresAt = claims.ExpiresAt.Time
	}

	return peeked
}

func (m *Manager) parse(tokenStr string, claims jwt.Claims) error {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidSignature
		}
		return m.config.Secret, nil
	})
	if err != nil {
		return mapParseError(err)
	}
	if !token.Valid {
		return ErrInvalidSignature
	}

	return nil
}

// mapParseError collapses golang-jwt's joined errors into the package
// taxonomy. Expiry is checked before signature mismatch because the library
// reports both through the same validation chain and an expired well-signed
// token must surface as ErrExpired.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	default:
		return ErrMalformed
	}
}
