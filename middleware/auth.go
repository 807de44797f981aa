// Package middleware provides Gin middleware that authenticates requests
// with bearer access tokens and enforces role permissions.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ridewise/carpool-auth/authctx"
	"github.com/ridewise/carpool-auth/errors"
	"github.com/ridewise/carpool-auth/token"
)

// AccessVerifier verifies an access token and returns its claims.
// *authn.Service satisfies it.
type AccessVerifier interface {
	ValidateAccessToken(ctx context.Context, tok string) (*token.Claims, error)
}

// AuthConfig configures the bearer-token middleware.
type AuthConfig struct {
	// SkipPaths are URL path prefixes that bypass authentication.
	SkipPaths []string
}

// RequireAuth returns a Gin middleware that verifies the Authorization
// bearer token and stores the claims in the request context for
// authctx.Get and the permission middleware.
func RequireAuth(verifier AccessVerifier, cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		raw, appErr := bearerToken(c)
		if appErr != nil {
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}

		claims, err := verifier.ValidateAccessToken(c.Request.Context(), raw)
		if err != nil {
			writeError(c, err)
			return
		}

		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), claims))
		c.Next()
	}
}

// RequirePermission returns a Gin middleware that rejects authenticated
// requests whose claims do not grant the required permission. It must run
// after RequireAuth.
func RequirePermission(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if _, ok := authctx.Get(ctx); !ok {
			appErr := errors.TokenInvalid()
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}
		if !authctx.HasPermission(ctx, required) {
			appErr := errors.PermissionDenied(required)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, *errors.AppError) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.MissingField("Authorization")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.TokenMalformed()
	}
	return parts[1], nil
}

func writeError(c *gin.Context, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
		return
	}
	appErr := errors.Internal(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, appErr.ToResponse())
}
