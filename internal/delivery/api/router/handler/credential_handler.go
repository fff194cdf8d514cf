// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"credgate/internal/delivery/api/middleware"
	"credgate/internal/delivery/api/response"
	"credgate/internal/delivery/api/validator"
	"credgate/internal/domain/entity"
	domainerrors "credgate/internal/domain/errors"
	"credgate/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CredentialHandlerParams holds dependencies for CredentialHandler, injected by Fx.
type CredentialHandlerParams struct {
	fx.In

	CredentialUC usecase.CredentialUsecase
	Logger       *slog.Logger
}

// CredentialHandler serves registration, login and the current-user lookup.
type CredentialHandler struct {
	credentialUC usecase.CredentialUsecase
	logger       *slog.Logger
}

// NewCredentialHandler is the constructor for CredentialHandler
func NewCredentialHandler(params CredentialHandlerParams) *CredentialHandler {
	return &CredentialHandler{
		credentialUC: params.CredentialUC,
		logger:       params.Logger,
	}
}

// CredentialsRequest is the body of both registration and login.
// Passwords may be empty; bcrypt only reads the first 72 bytes so longer ones are rejected.
type CredentialsRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=150"`
	Password string `json:"password" form:"password" validate:"maxbytes=72"`
}

// CredentialResponse is the public view of a credential.
type CredentialResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Register handles credential registration
func (h *CredentialHandler) Register(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid credentials input")
	}

	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	output, err := h.credentialUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, toCredentialResponse(output.Credential))
}

// Login exchanges a username and password for an access token
func (h *CredentialHandler) Login(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid credentials input")
	}

	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	output, err := h.credentialUC.Login(c.Request().Context(), &usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, TokenResponse{
		AccessToken: output.AccessToken,
		TokenType:   output.TokenType,
		ExpiresAt:   output.ExpiresAt,
	})
}

// Me returns the credential resolved by the auth middleware
func (h *CredentialHandler) Me(c echo.Context) error {
	credential, ok := middleware.GetCredential(c)
	if !ok {
		return response.Unauthorized(c, domainerrors.ErrUnknownSubject.ErrorCode(), domainerrors.ErrUnknownSubject.Message())
	}

	return response.Success(c, http.StatusOK, toCredentialResponse(credential))
}

func validationError(c echo.Context, err error) error {
	return response.BadRequestWithDetails(c,
		domainerrors.ErrValidationFailed.ErrorCode(),
		domainerrors.ErrValidationFailed.Message(),
		validator.Details(err),
	)
}

func toCredentialResponse(credential *entity.Credential) CredentialResponse {
	return CredentialResponse{
		ID:       credential.ID,
		Username: credential.Username,
	}
}
