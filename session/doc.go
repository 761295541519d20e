// Package session owns the per-user registry of active login sessions.
//
// # Storage layout
//
// Each user's sessions live in one Redis hash, keyed
// "USER_SESSIONS:{user_id}" by default, mapping session id to a JSON
// [Meta] blob. The hash carries no TTL: a session exists until it is
// explicitly removed, and a session id is present in the hash if and only
// if credentials referencing it are valid.
//
// # Concurrency
//
// All mutations are per-field (HSET/HDEL), which Redis applies atomically.
// Two concurrent logins for the same user therefore both land; there is no
// read-merge-write of the aggregate anywhere in this package.
//
// # Architecture boundaries
//
// This package does not parse credentials and does not decide
// authentication outcomes; that is the Gateway's job. The one coupling it
// has to the credential layer is [Meta].Credential, kept so that removal
// can purge the decoded-identity cache entry stored under the raw
// credential string.
package session
