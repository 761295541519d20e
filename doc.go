// Package authgate issues bearer credentials for an HTTP-facing service and
// validates them against a per-user registry of active login sessions, so
// any session can be listed, inspected, and individually revoked.
//
// The package is designed for concurrent server workloads: Gateway methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build]. All cross-request state lives in Redis; the process
// itself holds none.
//
// # Architecture boundaries
//
// authgate is the public surface. It exposes [Gateway], [Builder], [Config],
// and value types ([User], [Account], [AuthData]). Credential signing lives
// in the token subpackage, the session registry in the session subpackage,
// HTTP adapters in middleware.
//
// # Failure posture
//
// [Gateway.Authenticate] collapses every failure (forged signature,
// malformed token, revoked session, deleted user, unreachable backend) to
// a single boolean-false result. The richer taxonomy is visible only to the
// injected logger and the metrics counters. [Gateway.Issue] is the
// opposite: a registry write failure is a hard error, and no credential is
// released for a session that was never durably recorded.
package authgate
