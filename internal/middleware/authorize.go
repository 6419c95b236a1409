package middleware

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"edugrant/internal/errors"
	"edugrant/internal/service"
)

// identityKey is where the authenticated identity lives on the echo
// context. Identity is an explicit per-request value, never ambient
// process state.
const identityKey = "identity"

// Authenticate returns middleware that verifies the bearer token and
// attaches the caller's identity, including live role grants, to the
// request context.
func Authenticate(authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: identityKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authService.Verify(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errors.ErrInvalidToken
		},
	})
}

// RequireRoles returns middleware that passes when the identity's
// primary role or any of its role grants intersects the required set.
func RequireRoles(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := c.Get(identityKey).(*service.Identity)
			if !ok || identity == nil {
				return errors.ErrAuthRequired
			}
			if !identity.HasRole(required...) {
				return errors.ErrInsufficientPermissions
			}
			return next(c)
		}
	}
}

// CurrentIdentity returns the authenticated identity attached to the
// request, or an auth error when none is present.
func CurrentIdentity(c echo.Context) (*service.Identity, error) {
	identity, ok := c.Get(identityKey).(*service.Identity)
	if !ok || identity == nil {
		return nil, errors.ErrAuthRequired
	}
	return identity, nil
}

// SetIdentity attaches an identity to the context. Exported for tests.
func SetIdentity(c echo.Context, identity *service.Identity) {
	c.Set(identityKey, identity)
}
