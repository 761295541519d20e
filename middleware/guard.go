package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/panelkit/authgate"
)

type contextKey struct{}

var userContextKey contextKey

// Guard returns middleware that authenticates the bearer credential on
// every request. Requests that do not authenticate get a bare 401; the
// reason never reaches the client. On success the identity projection is
// stored on the request context for [UserFromContext].
func Guard(gateway *authgate.Gateway) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := bearerToken(r)
			user, ok := gateway.Authenticate(r.Context(), credential)
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the identity stored by [Guard], or nil when the
// request did not pass through it.
func UserFromContext(ctx context.Context) *authgate.User {
	user, _ := ctx.Value(userContextKey).(*authgate.User)
	return user
}

// bearerToken extracts the credential from the Authorization header. The
// scheme comparison is case-insensitive; a missing or differently-shaped
// header yields the empty string, which the gateway rejects.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, credential, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(credential)
}
