package authgate

import (
	"errors"
	"time"

	"github.com/panelkit/authgate/session"
)

// Config holds the tunables of a [Gateway]. Zero values for everything but
// Secret select the defaults.
type Config struct {
	// Secret signs credentials (HS256). Required.
	Secret []byte

	// SessionKeyPrefix namespaces per-user registry entries in Redis.
	SessionKeyPrefix string

	// IdentityCacheTTL bounds the decoded-identity memoization. The cache
	// amortizes signature re-verification and identity lookup across
	// repeated requests bearing the same credential; it is never a source
	// of truth.
	IdentityCacheTTL time.Duration
}

func defaultConfig() Config {
	return Config{
		SessionKeyPrefix: session.DefaultKeyPrefix,
		IdentityCacheTTL: time.Hour,
	}
}

// Validate reports the first configuration problem.
func (c Config) Validate() error {
	if len(c.Secret) == 0 {
		return errors.New("signing secret required")
	}
	if c.SessionKeyPrefix == "" {
		return errors.New("session key prefix required")
	}
	if c.IdentityCacheTTL <= 0 {
		return errors.New("identity cache TTL must be positive")
	}
	return nil
}
