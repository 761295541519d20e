package authgate

import (
	"context"
	"net/http"
	"time"

	"github.com/panelkit/authgate/realip"
)

// User is the read-only identity projection returned by
// [Gateway.Authenticate]. It is an immutable snapshot owned by an external
// identity store.
type User struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	IsStaff bool   `json:"is_staff"`
}

// Account carries the profile fields issuance needs. Token is a
// pre-existing identifier on the profile and is passed through verbatim;
// authgate attaches no meaning to it.
type Account struct {
	ID      int64
	Token   string
	IsAdmin bool
}

// AuthData is the issuance result handed back to a successful login.
type AuthData struct {
	Token    string `json:"token"`
	IsAdmin  bool   `json:"is_admin"`
	AuthData string `json:"auth_data"`
}

// UserProvider is the identity-lookup boundary. FindUserByID returns
// (nil, nil) when no user exists for id.
type UserProvider interface {
	FindUserByID(ctx context.Context, id int64) (*User, error)
}

// RequestMeta is the request-scoped metadata recorded on a new session.
type RequestMeta struct {
	IP        string
	UserAgent string
	LoginAt   time.Time
}

// RequestMetaFromHTTP assembles [RequestMeta] from an inbound request,
// resolving the client IP through proxy headers.
func RequestMetaFromHTTP(r *http.Request) RequestMeta {
	return RequestMeta{
		IP:        realip.FromRequest(r),
		UserAgent: r.UserAgent(),
		LoginAt:   time.Now(),
	}
}
