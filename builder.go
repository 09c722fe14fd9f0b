package authcore

import (
	"errors"

	internalaudit "github.com/hubforge/authcore/internal/audit"
	"github.com/hubforge/authcore/jwt"
	"github.com/hubforge/authcore/revocation"
	"github.com/hubforge/authcore/reset"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. A builder is single-use; Build wires the
// collaborators, starts the background sweep, and hands ownership of both to
// the returned engine.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	store  revocation.Store

	users     UserProvider
	mailer    Mailer
	auditSink AuditSink

	built bool
}

// New returns a Builder carrying [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis backs the revocation store with Redis instead of process
// memory, making revocations visible across host instances. Ignored when
// WithRevocationStore is also set.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithRevocationStore injects an explicit store. Tests use this to keep a
// handle on the store they assert against.
func (b *Builder) WithRevocationStore(store revocation.Store) *Builder {
	b.store = store
	return b
}

// WithUserProvider wires the persistence collaborator required by the
// refresh and password-reset flows.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.users = up
	return b
}

// WithMailer wires the email-delivery collaborator for reset tokens.
func (b *Builder) WithMailer(m Mailer) *Builder {
	b.mailer = m
	return b
}

// WithAuditSink wires the audit destination. Auditing still has to be
// enabled through [Config.Audit].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, constructs every component, and starts
// the background sweep. The engine owns the sweeper and audit dispatcher
// from here on; stop them through [Engine.Close].
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if err := b.config.validate(); err != nil {
		return nil, err
	}

	manager, err := jwt.NewManager(jwt.Config{
		Secret: b.config.Secret,
		Issuer: b.config.Issuer,
		Leeway: b.config.Leeway,
	})
	if err != nil {
		return nil, err
	}

	issuer, err := jwt.NewIssuer(manager, jwt.IssuerConfig{
		AccessTTL:  b.config.AccessTTL,
		RefreshTTL: b.config.RefreshTTL,
	})
	if err != nil {
		return nil, err
	}

	resets, err := reset.NewManager(b.config.BcryptCost, b.config.ResetTokenTTL)
	if err != nil {
		return nil, err
	}

	store := b.store
	if store == nil {
		if b.redis != nil {
			store = revocation.NewRedisStore(b.redis, "")
		} else {
			store = revocation.NewMemoryStore()
		}
	}

	metrics := NewMetrics(b.config.Metrics)
	dispatcher := internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    b.config.Audit.Enabled,
		BufferSize: b.config.Audit.BufferSize,
		DropIfFull: b.config.Audit.DropIfFull,
	}, b.auditSink)

	sweeper, err := revocation.NewSweeper(store, revocation.SweeperConfig{
		Interval: b.config.SweepInterval,
		OnSweep: func(removed int) {
			metrics.Add(MetricSweepRemoved, uint64(removed))
		},
	})
	if err != nil {
		dispatcher.Close()
		return nil, err
	}
	sweeper.Start()

	b.built = true
	return &Engine{
		config:      b.config,
		tokens:      manager,
		issuer:      issuer,
		revocations: store,
		resets:      resets,
		users:       b.users,
		mailer:      b.mailer,
		audit:       dispatcher,
		metrics:     metrics,
		sweeper:     sweeper,
	}, nil
}
