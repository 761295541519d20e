package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/panelkit/authgate"
)

// GinUserKey is where GinRequireAuth stores the identity in the gin context.
const GinUserKey = "authgate.user"

// GinRequireAuth wraps [Guard] for gin routers. On success the identity is
// available both via c.Get(GinUserKey) and via [UserFromContext] on the
// request context.
func GinRequireAuth(gateway *authgate.Gateway) gin.HandlerFunc {
	guard := Guard(gateway)
	return func(c *gin.Context) {
		authed := false
		guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authed = true
			c.Request = r
			c.Set(GinUserKey, UserFromContext(r.Context()))
		})).ServeHTTP(c.Writer, c.Request)
		if !authed {
			c.Abort()
			return
		}
		c.Next()
	}
}

// GinUser returns the identity stored by [GinRequireAuth], or nil.
func GinUser(c *gin.Context) *authgate.User {
	value, ok := c.Get(GinUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*authgate.User)
	return user
}
