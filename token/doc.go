// Package token signs and verifies the compact credentials that bind a
// subject identity to a session identifier.
//
// Credentials carry no expiry claim on purpose: their lifetime is governed
// entirely by the existence of the referenced session in the registry, never
// by token age. Verification is side-effect free.
package token
