package middleware

import (
	"context"
	"net/http"
	"time"

	"zenmindful/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID       = "userId"
	ContextSessionToken = "sessionToken"

	HeaderSessionToken = "X-Session-Token"
	HeaderUserID       = "X-User-Id"
)

type Resolver interface {
	Resolve(ctx context.Context, token, headerUserID string) (usecase.Resolution, error)
}

// SessionCookie describes how the session token travels to browsers.
type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Write sets or, with an empty token, clears the cookie and mirrors the
// token into the response header for non-browser clients.
func (sc SessionCookie) Write(c *gin.Context, token string) {
	maxAge := int(sc.TTL.Seconds())
	if token == "" {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.Name, token, maxAge, "/", "", sc.Secure, true)
	if token != "" {
		c.Header(HeaderSessionToken, token)
	}
}

// Token returns the session token the request carries, cookie first.
func (sc SessionCookie) Token(c *gin.Context) string {
	if v, err := c.Cookie(sc.Name); err == nil && v != "" {
		return v
	}
	return c.GetHeader(HeaderSessionToken)
}

// Identity resolves the canonical user of the request and stores it under
// ContextUserID. A session issued on the way is handed back to the client.
func Identity(resolver Resolver, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := resolver.Resolve(c.Request.Context(), cookie.Token(c), c.GetHeader(HeaderUserID))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		if res.Issued {
			cookie.Write(c, res.Token)
		}
		c.Set(ContextUserID, res.UserID)
		c.Set(ContextSessionToken, res.Token)

		c.Next()
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
