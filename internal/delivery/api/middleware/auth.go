package middleware

import (
	"credgate/internal/delivery/api/response"
	deliverycontext "credgate/internal/delivery/context"
	"credgate/internal/domain/entity"
	"credgate/internal/domain/service"
	"credgate/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const credentialContextKey = "credential"

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	AccessGate usecase.AccessGate
	Clock      service.Clock
}

// AuthMiddleware protects routes with the access gate.
type AuthMiddleware struct {
	gate  usecase.AccessGate
	clock service.Clock
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		gate:  params.AccessGate,
		clock: params.Clock,
	}
}

// Authenticate resolves the bearer token to a credential and stores it on the echo context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)

		credential, err := m.gate.Authorize(c.Request().Context(), authHeader, m.clock.Now())
		if err != nil {
			return response.HandleAppError(c, err)
		}

		c.Set(credentialContextKey, credential)
		c.SetRequest(c.Request().WithContext(deliverycontext.WithSubject(c.Request().Context(), credential.Username)))

		return next(c)
	}
}

// GetCredential returns the credential stored by Authenticate.
func GetCredential(c echo.Context) (*entity.Credential, bool) {
	credential, ok := c.Get(credentialContextKey).(*entity.Credential)

	return credential, ok && credential != nil
}
