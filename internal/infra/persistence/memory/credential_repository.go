// Package memory provides a process-local credential store.
package memory

import (
	"context"
	"sync"
	"time"

	"credgate/internal/domain/entity"
	"credgate/internal/domain/repository"
)

type credentialRepository struct {
	mu         sync.RWMutex
	byUsername map[string]entity.Credential
	lastID     int64
	now        func() time.Time
}

// NewCredentialRepository returns an empty in-memory credential store. Data is lost on restart.
func NewCredentialRepository() repository.CredentialRepository {
	return &credentialRepository{
		byUsername: make(map[string]entity.Credential),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (repo *credentialRepository) FindByUsername(ctx context.Context, username string) (*entity.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo.mu.RLock()
	cred, ok := repo.byUsername[username]
	repo.mu.RUnlock()

	if !ok {
		return nil, repository.ErrCredentialNotFound
	}

	return &cred, nil
}

func (repo *credentialRepository) Create(ctx context.Context, username, passwordHash string) (*entity.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.byUsername[username]; exists {
		return nil, repository.ErrDuplicateUsername
	}

	repo.lastID++
	cred := entity.Credential{
		ID:           repo.lastID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    repo.now(),
	}
	repo.byUsername[username] = cred

	return &cred, nil
}
