package authcore

import (
	"bytes"
	"errors"
	"time"

	"github.com/hubforge/authcore/reset"
	"golang.org/x/crypto/bcrypt"
)

// defaultDevSecret keeps development setups running without configuration.
// Build refuses it outright in production mode.
const defaultDevSecret = "authcore-dev-secret-change-me-before-deploy"

// Config is the full engine configuration. The signing secret, TTLs, and
// sweep interval are consumed here, not owned: the excluded configuration
// loader decides where their values come from.
type Config struct {
	// Secret signs every token. At least 32 bytes; must not be the built-in
	// development default when ProductionMode is set.
	Secret []byte
	// Issuer is stamped into and enforced on every token when set.
	Issuer string
	// ProductionMode tightens validation (secret hygiene).
	ProductionMode bool

	// AccessTTL is the access-token lifetime. Default 15 minutes.
	AccessTTL time.Duration
	// RefreshTTL is the refresh-token lifetime and the bound used when
	// revoking everything a subject holds. Default 7 days.
	RefreshTTL time.Duration
	// ResetTokenTTL is the password-reset token lifetime. Default 24 hours.
	ResetTokenTTL time.Duration
	// SweepInterval is the cadence of the background revocation sweep.
	// Default 1 hour.
	SweepInterval time.Duration
	// Leeway tolerated on token time claims. Default 0, at most 2 minutes.
	Leeway time.Duration

	// BcryptCost is the hashing cost for reset tokens and passwords.
	// Default 12, minimum 10.
	BcryptCost int

	Audit   AuditConfig
	Metrics MetricsConfig
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the development defaults described above.
func DefaultConfig() Config {
	return Config{
		Secret:        []byte(defaultDevSecret),
		Issuer:        "authcore",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		ResetTokenTTL: reset.DefaultTTL,
		SweepInterval: time.Hour,
		BcryptCost:    reset.DefaultCost,
		Audit: AuditConfig{
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

func (c *Config) validate() error {
	if len(c.Secret) < 32 {
		return errors.New("signing secret must be at least 32 bytes")
	}
	if c.ProductionMode && bytes.Equal(c.Secret, []byte(defaultDevSecret)) {
		return errors.New("default development secret rejected in production mode")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 || c.ResetTokenTTL <= 0 {
		return errors.New("invalid TTL configuration")
	}
	if c.AccessTTL >= c.RefreshTTL {
		return errors.New("access ttl must be shorter than refresh ttl")
	}
	if c.SweepInterval <= 0 {
		return errors.New("sweep interval must be positive")
	}
	if c.Leeway < 0 || c.Leeway > 2*time.Minute {
		return errors.New("invalid leeway configuration")
	}
	if c.BcryptCost < reset.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return errors.New("bcrypt cost out of range")
	}

	return nil
}
