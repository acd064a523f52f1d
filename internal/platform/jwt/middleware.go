package jwtmw

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"messagely/internal/platform/http/respond"
	"messagely/internal/shared/apperr"
)

// ContextPrincipal is the gin context key holding the *Principal.
const ContextPrincipal = "principal"

var (
	// ErrUnauthenticated is returned when a route requires a principal and none is attached.
	ErrUnauthenticated = apperr.New(apperr.Unauthenticated, "unauthorized")
	// ErrForbidden is returned when the principal is not the user named by the route.
	ErrForbidden = apperr.New(apperr.Forbidden, "forbidden")
)

// Principal is the authenticated identity attached to one request.
type Principal struct {
	Username string
}

// TokenVerifier verifies a token and returns its username.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthenticateJWT attaches a Principal when the request carries a valid
// bearer token. It never rejects a request; guards further down decide.
func AuthenticateJWT(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || tokenStr == "" {
			c.Next()
			return
		}
		username, err := v.Verify(tokenStr)
		if err != nil {
			slog.Debug("token rejected", "error", err, "remote_addr", c.ClientIP())
			c.Next()
			return
		}
		c.Set(ContextPrincipal, &Principal{Username: username})
		c.Next()
	}
}

// PrincipalFrom returns the principal attached by AuthenticateJWT, if any.
func PrincipalFrom(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok && p != nil
}

// RequireLoggedIn fails with ErrUnauthenticated when p is absent.
func RequireLoggedIn(p *Principal) (*Principal, error) {
	if p == nil || p.Username == "" {
		return nil, ErrUnauthenticated
	}
	return p, nil
}

// RequireUser fails unless p is logged in as expected.
func RequireUser(p *Principal, expected string) error {
	p, err := RequireLoggedIn(p)
	if err != nil {
		return err
	}
	if p.Username != expected {
		return ErrForbidden
	}
	return nil
}

// EnsureLoggedIn aborts with 401 when no principal is attached.
func EnsureLoggedIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		if _, err := RequireLoggedIn(p); err != nil {
			respond.Error(c, err)
			return
		}
		c.Next()
	}
}

// EnsureCorrectUser aborts unless the principal matches the route parameter param.
func EnsureCorrectUser(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		if err := RequireUser(p, c.Param(param)); err != nil {
			respond.Error(c, err)
			return
		}
		c.Next()
	}
}
