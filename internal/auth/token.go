// Package auth guards the webhook surface with a static shared secret.
package auth

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// BearerMiddleware returns a bearer-token auth middleware that compares the
// presented token against the configured secret in constant time. An empty
// secret disables authentication, for local development only.
func BearerMiddleware(secret string, skipper middleware.Skipper) echo.MiddlewareFunc {
	if secret == "" {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Skipper:    skipper,
		KeyLookup:  "header:Authorization",
		AuthScheme: "Bearer",
		Validator: func(key string, _ echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(key), []byte(secret)) == 1, nil
		},
	})
}
