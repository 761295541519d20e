package authgate

import "errors"

var (
	// ErrSessionNotFound means the credential's signature verified but its
	// session is absent, revoked or never created. At the outer boundary it
	// is indistinguishable from forgery.
	ErrSessionNotFound = errors.New("session not found")
	// ErrIdentityNotFound means the subject was deleted after issuance.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrSessionCreationFailed means the registry write failed during
	// issuance; the minted credential was discarded.
	ErrSessionCreationFailed = errors.New("session creation failed")
	// ErrGatewayNotReady is returned by methods on a nil Gateway.
	ErrGatewayNotReady = errors.New("gateway not initialized")
)
