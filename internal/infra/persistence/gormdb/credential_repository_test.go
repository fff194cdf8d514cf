package gormdb

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"credgate/config"
	"credgate/internal/domain/constants"
	domainerrors "credgate/internal/domain/errors"
	"credgate/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Store: &config.StoreConfig{Driver: constants.StoreDriverSQLite},
	}
	cfg.Store.SQLite.Path = filepath.Join(t.TempDir(), "credentials.db")

	db, err := Open(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestCredentialRepository_CreateAndFind(t *testing.T) {
	repo := NewCredentialRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, "alice", "$2a$04$hash")
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, "$2a$04$hash", created.PasswordHash)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "$2a$04$hash", found.PasswordHash)

	second, err := repo.Create(ctx, "bob", "$2a$04$other")
	require.NoError(t, err)
	assert.Greater(t, second.ID, created.ID)
}

func TestCredentialRepository_FindByUsername_NotFound(t *testing.T) {
	repo := NewCredentialRepository(newTestDB(t))

	found, err := repo.FindByUsername(context.Background(), "ghost")
	assert.Nil(t, found)
	assert.ErrorIs(t, err, repository.ErrCredentialNotFound)
}

func TestCredentialRepository_UsernameIsCaseSensitive(t *testing.T) {
	repo := NewCredentialRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, "alice", "h1")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "Alice", "h2")
	require.NoError(t, err)

	_, err = repo.FindByUsername(ctx, "ALICE")
	assert.ErrorIs(t, err, repository.ErrCredentialNotFound)
}

func TestCredentialRepository_Create_Duplicate(t *testing.T) {
	repo := NewCredentialRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, "alice", "h1")
	require.NoError(t, err)

	dup, err := repo.Create(ctx, "alice", "h2")
	assert.Nil(t, dup)
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h1", found.PasswordHash)
}

func TestCredentialRepository_Create_Concurrent(t *testing.T) {
	repo := NewCredentialRepository(newTestDB(t))
	ctx := context.Background()

	const workers = 8
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, "carol", "hash")
		}()
	}
	wg.Wait()

	var succeeded, duplicated int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, repository.ErrDuplicateUsername):
			duplicated++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, duplicated)
}

func TestCredentialRepository_ClosedDatabase(t *testing.T) {
	db := newTestDB(t)
	repo := NewCredentialRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.FindByUsername(context.Background(), "alice")
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
	assert.NotErrorIs(t, err, repository.ErrCredentialNotFound)

	_, err = repo.Create(context.Background(), "alice", "$2a$04$hash")
	require.ErrorAs(t, err, &appErr)
	assert.NotErrorIs(t, err, repository.ErrDuplicateUsername)
}

func TestOpen_Errors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := Open(&config.Config{}, logger)
	require.Error(t, err)

	_, err = Open(&config.Config{Store: &config.StoreConfig{Driver: "oracle"}}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")

	_, err = Open(&config.Config{Store: &config.StoreConfig{Driver: constants.StoreDriverSQLite}}, logger)
	require.Error(t, err)
}

func TestIsUniqueConstraintViolation(t *testing.T) {
	assert.False(t, isUniqueConstraintViolation(nil))
	assert.True(t, isUniqueConstraintViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueConstraintViolation(errors.New("UNIQUE constraint failed: users.username")))
	assert.True(t, isUniqueConstraintViolation(errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_username" (SQLSTATE 23505)`)))
	assert.False(t, isUniqueConstraintViolation(assert.AnError))
}
