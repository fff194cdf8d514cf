package gormdb

import (
	"context"

	"credgate/internal/domain/entity"
	domainerrors "credgate/internal/domain/errors"
	"credgate/internal/domain/repository"
	"credgate/internal/errors"
	"credgate/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// credentialRepository implements repository.CredentialRepository using GORM.
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository returns the GORM-backed credential store.
func NewCredentialRepository(db *gorm.DB) repository.CredentialRepository {
	return &credentialRepository{db: db}
}

// FindByUsername retrieves a credential by its exact username.
func (repo *credentialRepository) FindByUsername(ctx context.Context, username string) (*entity.Credential, error) {
	var credM model.CredentialModel
	err := repo.db.WithContext(ctx).
		Where("username = ?", username).
		Take(&credM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCredentialNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find credential by username")
	}

	return toCredentialDomain(&credM), nil
}

// Create inserts a new credential. The unique index on username decides concurrent registrations.
func (repo *credentialRepository) Create(ctx context.Context, username, passwordHash string) (*entity.Credential, error) {
	credM := &model.CredentialModel{
		Username:       username,
		HashedPassword: passwordHash,
	}

	if err := repo.db.WithContext(ctx).Create(credM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return nil, repository.ErrDuplicateUsername
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create credential")
	}

	return toCredentialDomain(credM), nil
}

func toCredentialDomain(credM *model.CredentialModel) *entity.Credential {
	return &entity.Credential{
		ID:           credM.ID,
		Username:     credM.Username,
		PasswordHash: credM.HashedPassword,
		CreatedAt:    credM.CreatedAt,
	}
}
