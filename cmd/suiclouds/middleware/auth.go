package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/anhkhoavan24-art/SuiClouds/common/clients"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UsernameKey is the context key for storing the caller identity
	UsernameKey ContextKey = "username"

	// SignerAddressKey is the context key for the caller's wallet address
	SignerAddressKey ContextKey = "signer-address"
)

// ExtractIdentity extracts the X-User-ID and X-Signer-Address headers and
// stores them both on the echo context and on the request context, so
// downstream services and outbound HTTP clients see the same identity.
//
// Empty headers are allowed; uploads without a signer simply skip the
// authenticated write path.
func ExtractIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()

			if username := req.Header.Get("X-User-ID"); username != "" {
				c.Set(string(UsernameKey), username)
				ctx = clients.WithUserID(ctx, username)
			}

			if signer := req.Header.Get("X-Signer-Address"); signer != "" {
				c.Set(string(SignerAddressKey), signer)
				ctx = clients.WithSigner(ctx, signer)
			}

			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

// GetUsername retrieves the username from the request context
// Returns empty string if not set
func GetUsername(c echo.Context) string {
	username := c.Get(string(UsernameKey))
	if username == nil {
		return ""
	}
	return username.(string)
}

// GetSignerAddress retrieves the signer address from the request context
func GetSignerAddress(c echo.Context) string {
	signer := c.Get(string(SignerAddressKey))
	if signer == nil {
		return ""
	}
	return signer.(string)
}
