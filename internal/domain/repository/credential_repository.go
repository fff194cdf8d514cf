// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"credgate/internal/domain/entity"
)

// Domain-specific errors for credential persistence.
var (
	// ErrCredentialNotFound is returned when no credential exists for a username.
	ErrCredentialNotFound = errors.New("credential not found")
	// ErrDuplicateUsername is returned when inserting a username that already exists.
	ErrDuplicateUsername = errors.New("duplicate username")
)

// CredentialRepository is the credential store boundary the authentication core depends on.
// Uniqueness of usernames is enforced by the implementation.
type CredentialRepository interface {
	// FindByUsername retrieves the credential for username, or ErrCredentialNotFound.
	FindByUsername(ctx context.Context, username string) (*entity.Credential, error)

	// Create persists a new credential and returns it with its generated ID.
	// It returns ErrDuplicateUsername if the username is already taken.
	Create(ctx context.Context, username, passwordHash string) (*entity.Credential, error)
}
