// Package persistence selects the credential store backend from configuration.
package persistence

import (
	"log/slog"

	"credgate/config"
	"credgate/internal/domain/constants"
	"credgate/internal/domain/repository"
	"credgate/internal/infra/persistence/gormdb"
	"credgate/internal/infra/persistence/memory"

	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewCredentialRepository builds the store named by store.driver.
// The memory driver never opens a database.
func NewCredentialRepository(params Params) (repository.CredentialRepository, error) {
	if params.Config.Store != nil && params.Config.Store.Driver == constants.StoreDriverMemory {
		params.Logger.Warn("Using in-memory credential store, registrations are lost on restart")

		return memory.NewCredentialRepository(), nil
	}

	db, err := gormdb.New(gormdb.Params{
		Lifecycle: params.Lifecycle,
		Config:    params.Config,
		Logger:    params.Logger,
	})
	if err != nil {
		return nil, err
	}

	params.Logger.Info("Credential store ready", slog.String("driver", params.Config.Store.Driver))

	return gormdb.NewCredentialRepository(db), nil
}
