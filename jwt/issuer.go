package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// IssuerConfig carries the lifetimes stamped into issued pairs.
type IssuerConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Issuer produces one access/refresh pair per successful authentication.
// Every JTI and token family is a fresh v4 UUID (128 bits from the CSPRNG),
// so uniqueness holds by construction rather than by lookup. Issuance never
// touches the revocation store.
type Issuer struct {
	manager *Manager
	config  IssuerConfig
}

// TokenPair is the result of a single issuance. ExpiresIn is the access
// token lifetime in seconds, for the excluded HTTP layer's response body.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// NewIssuer validates cfg and returns an Issuer signing through m.
func NewIssuer(m *Manager, cfg IssuerConfig) (*Issuer, error) {
	if m == nil {
		return nil, errors.New("issuer requires a token manager")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.AccessTTL >= cfg.RefreshTTL {
		return nil, errors.New("access ttl must be shorter than refresh ttl")
	}

	return &Issuer{manager: m, config: cfg}, nil
}

// IssuePair creates a pair under a brand-new token family. Used at login.
func (i *Issuer) IssuePair(subject, email, role string) (*TokenPair, error) {
	return i.issue(subject, email, role, uuid.NewString())
}

// Renew creates a pair that stays inside an existing token family. Used when
// exchanging a still-valid refresh token; both JTIs are fresh.
func (i *Issuer) Renew(subject, email, role, family string) (*TokenPair, error) {
	if family == "" {
		return nil, errors.New("renew requires a token family")
	}
	return i.issue(subject, email, role, family)
}

func (i *Issuer) issue(subject, email, role, family string) (*TokenPair, error) {
	if subject == "" {
		return nil, errors.New("issue requires a subject")
	}

	access, err := i.manager.CreateAccess(AccessClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
			ID:      uuid.NewString(),
		},
	}, i.config.AccessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := i.manager.CreateRefresh(RefreshClaims{
		Family: family,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
			ID:      uuid.NewString(),
		},
	}, i.config.RefreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(i.config.AccessTTL / time.Second),
	}, nil
}
