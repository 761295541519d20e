// Package realip derives the best-effort originating client IP from proxy
// headers. The result only ever feeds session metadata; it is not used for
// any security decision.
package realip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// FromRequest resolves the client IP for r. Candidates are collected in
// trust order: CF-Connecting-IP, then each X-Forwarded-For entry left to
// right (leftmost is the original client in a trusted proxy chain), then
// X-Real-IP, then the transport remote address. The first one that parses
// as an IPv4 or IPv6 literal wins. When nothing validates, the
// transport remote host is returned as-is. Never fails, no side effects.
func FromRequest(r *http.Request) string {
	var candidates []string

	if cf := r.Header.Get("CF-Connecting-IP"); cf != "" {
		candidates = append(candidates, cf)
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if part = strings.TrimSpace(part); part != "" {
				candidates = append(candidates, part)
			}
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		candidates = append(candidates, xri)
	}

	remote := remoteHost(r.RemoteAddr)
	if remote != "" {
		candidates = append(candidates, remote)
	}

	for _, candidate := range candidates {
		if _, err := netip.ParseAddr(candidate); err == nil {
			return candidate
		}
	}
	return remote
}

func remoteHost(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
