package authgate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/panelkit/authgate/session"
	"github.com/panelkit/authgate/token"
)

// Gateway orchestrates credential issuance and verification on top of the
// token codec, the session registry, and the decoded-identity cache. Build
// one with [Builder]; it is safe for concurrent use afterwards.
type Gateway struct {
	config   Config
	codec    *token.Codec
	registry *session.Registry
	cache    *identityCache
	users    UserProvider
	logger   *slog.Logger
	metrics  *Metrics
}

// Issue mints a credential for account, bound to a fresh session whose
// metadata (client IP, login time, user agent, and the credential string
// itself) is persisted in the registry.
//
// The credential has to be signed before the registry write because the
// persisted metadata embeds it; a failed write therefore discards an
// already-minted credential and returns [ErrSessionCreationFailed].
// Issuance did not happen, and nothing is released that could never pass
// verification.
func (g *Gateway) Issue(ctx context.Context, account Account, meta RequestMeta) (*AuthData, error) {
	if g == nil {
		return nil, ErrGatewayNotReady
	}

	sessionID := session.NewID()
	credential, err := g.codec.Sign(account.ID, sessionID)
	if err != nil {
		g.metrics.inc(MetricIssueFailed)
		return nil, err
	}

	loginAt := meta.LoginAt
	if loginAt.IsZero() {
		loginAt = time.Now()
	}
	err = g.registry.Create(ctx, account.ID, sessionID, session.Meta{
		IP:         meta.IP,
		LoginAt:    loginAt.Unix(),
		UserAgent:  meta.UserAgent,
		Credential: credential,
	})
	if err != nil {
		g.metrics.inc(MetricIssueFailed)
		g.logger.WarnContext(ctx, "session write failed during issuance",
			"user_id", account.ID, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}

	g.metrics.inc(MetricIssued)
	return &AuthData{
		Token:    account.Token,
		IsAdmin:  account.IsAdmin,
		AuthData: credential,
	}, nil
}

// Authenticate resolves credential to an identity projection. Every failure
// kind (forged or malformed token, revoked session, deleted user, backend
// trouble) collapses to (nil, false); callers never learn why. The typed
// reasons go to the configured logger only.
func (g *Gateway) Authenticate(ctx context.Context, credential string) (*User, bool) {
	if g == nil {
		return nil, false
	}

	user, err := g.authenticate(ctx, credential)
	if err != nil {
		g.metrics.inc(MetricAuthRejected)
		if errors.Is(err, session.ErrStoreUnavailable) {
			g.metrics.inc(MetricStoreError)
		}
		g.logger.DebugContext(ctx, "authentication rejected", "err", err)
		return nil, false
	}

	g.metrics.inc(MetricAuthenticated)
	return user, true
}

func (g *Gateway) authenticate(ctx context.Context, credential string) (*User, error) {
	if credential == "" {
		return nil, token.ErrDecode
	}

	// Hot path: a live cache entry short-circuits signature and session
	// checks entirely for up to IdentityCacheTTL. A cache read failure is
	// downgraded to a miss; the cache is never load-bearing.
	cached, cacheErr := g.cache.get(ctx, credential)
	if cacheErr == nil && cached != nil {
		g.metrics.inc(MetricAuthCacheHit)
		return cached, nil
	}
	if cacheErr != nil {
		g.logger.DebugContext(ctx, "identity cache read failed", "err", cacheErr)
	}

	claims, err := g.codec.Verify(credential)
	if err != nil {
		return nil, err
	}

	ok, err := g.registry.Exists(ctx, claims.SubjectID, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionNotFound
	}

	user, err := g.users.FindUserByID(ctx, claims.SubjectID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrIdentityNotFound
	}

	if err := g.cache.put(ctx, credential, user); err != nil {
		g.logger.DebugContext(ctx, "identity cache write failed", "err", err)
	}
	return user, nil
}

// Sessions returns the live snapshot of userID's active sessions for
// display and management.
func (g *Gateway) Sessions(ctx context.Context, userID int64) (map[string]session.Meta, error) {
	if g == nil {
		return nil, ErrGatewayNotReady
	}
	return g.registry.List(ctx, userID)
}

// Revoke removes one session. The credential minted for it stops
// authenticating immediately, even though its signature remains valid.
// Revoking an absent session succeeds.
func (g *Gateway) Revoke(ctx context.Context, userID int64, sessionID string) error {
	if g == nil {
		return ErrGatewayNotReady
	}
	if err := g.registry.Remove(ctx, userID, sessionID); err != nil {
		return err
	}
	g.metrics.inc(MetricRevoked)
	return nil
}

// RevokeAll removes every session for userID ("log out everywhere").
func (g *Gateway) RevokeAll(ctx context.Context, userID int64) error {
	if g == nil {
		return ErrGatewayNotReady
	}
	if err := g.registry.RemoveAll(ctx, userID); err != nil {
		return err
	}
	g.metrics.inc(MetricRevokedAll)
	return nil
}

// MetricsSnapshot returns the current gateway counters.
func (g *Gateway) MetricsSnapshot() map[MetricID]uint64 {
	if g == nil {
		return map[MetricID]uint64{}
	}
	return g.metrics.Snapshot()
}
