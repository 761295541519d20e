package authgate

import (
	"errors"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/panelkit/authgate/session"
	"github.com/panelkit/authgate/token"
)

// Builder assembles a [Gateway]. Construction is allocation-only; no I/O
// happens until the Gateway is used.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	users  UserProvider
	logger *slog.Logger
	built  bool
}

// New starts a builder with default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the configuration. Zero fields other than Secret are
// filled with defaults at Build time.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithSecret sets the credential signing secret.
func (b *Builder) WithSecret(secret []byte) *Builder {
	b.config.Secret = secret
	return b
}

// WithRedis sets the Redis client backing the session registry and the
// decoded-identity cache.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserProvider sets the identity-lookup boundary.
func (b *Builder) WithUserProvider(users UserProvider) *Builder {
	b.users = users
	return b
}

// WithLogger sets the logger that receives the internal failure taxonomy.
// Without one, rejections stay silent.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates dependencies and returns the Gateway. A builder can be
// used once.
func (b *Builder) Build() (*Gateway, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	cfg := b.config
	if cfg.SessionKeyPrefix == "" {
		cfg.SessionKeyPrefix = session.DefaultKeyPrefix
	}
	if cfg.IdentityCacheTTL == 0 {
		cfg.IdentityCacheTTL = defaultConfig().IdentityCacheTTL
	}

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.users == nil {
		return nil, errors.New("user provider required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	codec, err := token.NewCodec(cfg.Secret)
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Gateway{
		config:   cfg,
		codec:    codec,
		registry: session.NewRegistry(b.redis, cfg.SessionKeyPrefix),
		cache:    &identityCache{redis: b.redis, ttl: cfg.IdentityCacheTTL},
		users:    b.users,
		logger:   logger,
		metrics:  &Metrics{},
	}, nil
}
