// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"credgate/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new credential.
type RegisterInput struct {
	Username string
	Password string
}

// LoginInput defines the data required to exchange a password for an access token.
type LoginInput struct {
	Username string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created credential without its password hash.
type RegisterOutput struct {
	Credential *entity.Credential
}

// LoginOutput returns the issued access token.
type LoginOutput struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// CredentialUsecase defines registration and login.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type CredentialUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
}

// AccessGate resolves the credential behind an Authorization header value.
type AccessGate interface {
	// Authorize returns the credential (hash stripped) named by a valid bearer token.
	Authorize(ctx context.Context, rawHeader string, now time.Time) (*entity.Credential, error)
}
