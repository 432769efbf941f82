package api

import (
	"context"
	"net/http"

	"tikclone/pkg/token"

	"github.com/gin-gonic/gin"
)

// TokenVerifier checks access tokens.
type TokenVerifier interface {
	VerifyAccess(tokenString string) (*token.Claims, error)
}

const identityKey = "identity"

type identityCtxKey struct{}

// WithIdentity attaches the caller's identity to ctx.
func WithIdentity(ctx context.Context, id token.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFrom returns the identity attached by RequireToken.
func IdentityFrom(ctx context.Context) (token.Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(token.Identity)
	return id, ok
}

// RequireToken verifies the Bearer access token and stores its claims on both the
// gin context and the request context.
func RequireToken(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			abort(c, http.StatusUnauthorized, "not authenticated")
			return
		}
		claims, err := v.VerifyAccess(authHeader[7:])
		if err != nil {
			abort(c, http.StatusUnauthorized, "not authenticated")
			return
		}
		c.Set(identityKey, claims.Identity)
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), claims.Identity))
		c.Next()
	}
}

// RequireActive must run after RequireToken.
func RequireActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "not authenticated")
			return
		}
		if !id.Active {
			abort(c, http.StatusForbidden, "account not activated")
			return
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireToken.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "not authenticated")
			return
		}
		if !id.IsAdmin {
			abort(c, http.StatusForbidden, "admin access required")
			return
		}
		c.Next()
	}
}

func identity(c *gin.Context) (token.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return token.Identity{}, false
	}
	id, ok := v.(token.Identity)
	return id, ok
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}
