// Package middleware adapts the gateway to HTTP handler chains. The
// net/http guard is the canonical one; a thin gin bridge reuses it so both
// stacks share a single extraction and rejection path.
package middleware
