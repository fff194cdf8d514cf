package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"credgate/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialRepository_CreateAndFind(t *testing.T) {
	repo := NewCredentialRepository()
	ctx := context.Background()

	alice, err := repo.Create(ctx, "alice", "h1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), alice.ID)

	bob, err := repo.Create(ctx, "bob", "h2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), bob.ID)

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice, found)

	_, err = repo.FindByUsername(ctx, "Alice")
	assert.ErrorIs(t, err, repository.ErrCredentialNotFound)
}

func TestCredentialRepository_ReturnsCopies(t *testing.T) {
	repo := NewCredentialRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, "alice", "h1")
	require.NoError(t, err)
	created.PasswordHash = ""

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h1", found.PasswordHash)
}

func TestCredentialRepository_Create_Duplicate(t *testing.T) {
	repo := NewCredentialRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, "alice", "h1")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "alice", "h2")
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
}

func TestCredentialRepository_Create_Concurrent(t *testing.T) {
	repo := NewCredentialRepository()
	ctx := context.Background()

	var succeeded, duplicated atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, "carol", "hash")
			switch {
			case err == nil:
				succeeded.Add(1)
			case assert.ErrorIs(t, err, repository.ErrDuplicateUsername):
				duplicated.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(15), duplicated.Load())
}

func TestCredentialRepository_CanceledContext(t *testing.T) {
	repo := NewCredentialRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, "alice", "h1")
	require.ErrorIs(t, err, context.Canceled)

	_, err = repo.FindByUsername(ctx, "alice")
	require.ErrorIs(t, err, context.Canceled)
}
