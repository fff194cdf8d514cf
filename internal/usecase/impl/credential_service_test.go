package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"credgate/config"
	"credgate/internal/domain/entity"
	domainerrors "credgate/internal/domain/errors"
	"credgate/internal/domain/repository"
	"credgate/internal/domain/service"
	mockRepo "credgate/internal/mocks/repository"
	mockSvc "credgate/internal/mocks/service"
	"credgate/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testAccessTokenTTL = 30 * time.Minute
	testDecoyHash      = "$2a$04$decoy"
)

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// credentialServiceFixtures holds all test dependencies for credential service tests.
type credentialServiceFixtures struct {
	service        usecase.CredentialUsecase
	credentialRepo *mockRepo.MockCredentialRepository
	hasher         *mockSvc.MockPasswordHasher
	tokenService   *mockSvc.MockTokenService
	publisher      *mockSvc.MockEventPublisher
	clock          *mockSvc.MockClock
}

func testConfig() *config.Config {
	return &config.Config{Auth: &config.AuthConfig{AccessTokenTTL: testAccessTokenTTL}}
}

func createTestCredentialService(t *testing.T) credentialServiceFixtures {
	credentialRepo := mockRepo.NewMockCredentialRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	publisher := mockSvc.NewMockEventPublisher(t)
	clock := mockSvc.NewMockClock(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hasher.EXPECT().Hash(mock.AnythingOfType("string")).Return(testDecoyHash, nil).Once()

	srv, err := NewCredentialService(CredentialServiceParams{
		CredentialRepo: credentialRepo,
		Hasher:         hasher,
		TokenService:   tokenService,
		Publisher:      publisher,
		Clock:          clock,
		Config:         testConfig(),
		Logger:         logger,
	})
	require.NoError(t, err)

	return credentialServiceFixtures{
		service:        srv,
		credentialRepo: credentialRepo,
		hasher:         hasher,
		tokenService:   tokenService,
		publisher:      publisher,
		clock:          clock,
	}
}

func TestCredentialService_Register_Success(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.credentialRepo.EXPECT().FindByUsername(ctx, "alice").Return(nil, repository.ErrCredentialNotFound).Once()
	fx.hasher.EXPECT().Hash("pw1").Return("$2a$04$alice", nil).Once()
	fx.credentialRepo.EXPECT().Create(ctx, "alice", "$2a$04$alice").
		Return(&entity.Credential{ID: 7, Username: "alice", PasswordHash: "$2a$04$alice", CreatedAt: testNow}, nil).Once()
	fx.clock.EXPECT().Now().Return(testNow).Once()
	fx.publisher.EXPECT().
		PublishCredentialEvent(mock.Anything, mock.MatchedBy(func(event *service.CredentialEvent) bool {
			return event.Type == service.CredentialEventRegistered &&
				event.CredentialID == 7 &&
				event.Username == "alice" &&
				event.EventID != "" &&
				event.OccurredAt.Equal(testNow)
		})).
		Return(nil).Once()

	out, err := fx.service.Register(ctx, &usecase.RegisterInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	require.NotNil(t, out.Credential)
	assert.Equal(t, int64(7), out.Credential.ID)
	assert.Equal(t, "alice", out.Credential.Username)
	assert.Empty(t, out.Credential.PasswordHash)
}

func TestCredentialService_Register_UsernameTaken(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.credentialRepo.EXPECT().FindByUsername(ctx, "alice").
		Return(&entity.Credential{ID: 1, Username: "alice", PasswordHash: "h"}, nil).Once()

	out, err := fx.service.Register(ctx, &usecase.RegisterInput{Username: "alice", Password: "pw1"})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domainerrors.ErrUsernameTaken)
}

func TestCredentialService_Register_DuplicateOnCreate(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.credentialRepo.EXPECT().FindByUsername(ctx, "alice").Return(nil, repository.ErrCredentialNotFound).Once()
	fx.hasher.EXPECT().Hash("pw1").Return("h", nil).Once()
	fx.credentialRepo.EXPECT().Create(ctx, "alice", "h").Return(nil, repository.ErrDuplicateUsername).Once()

	out, err := fx.service.Register(ctx, &usecase.RegisterInput{Username: "alice", Password: "pw1"})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domainerrors.ErrUsernameTaken)
}

func TestCredentialService_Register_HashFailure(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.credentialRepo.EXPECT().FindByUsername(ctx, "alice").Return(nil, repository.ErrCredentialNotFound).Once()
	fx.hasher.EXPECT().Hash("pw1").Return("", domainerrors.ErrPasswordHashFailed.WrapMessage("password too long")).Once()

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Username: "alice", Password: "pw1"})
	assert.ErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
}

func TestCredentialService_Register_StoreFailure(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.credentialRepo.EXPECT().FindByUsername(ctx, "alice").Return(nil, assert.AnError).Once()

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Username: "alice", Password: "pw1"})
	require.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, domainerrors.ErrUsernameTaken)
}

func TestCredentialService_Register_PublishFailureIsIgnored(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.credentialRepo.EXPECT().FindByUsername(ctx, "alice").Return(nil, repository.ErrCredentialNotFound).Once()
	fx.hasher.EXPECT().Hash("pw1").Return("h", nil).Once()
	fx.credentialRepo.EXPECT().Create(ctx, "alice", "h").
		Return(&entity.Credential{ID: 1, Username: "alice", PasswordHash: "h"}, nil).Once()
	fx.clock.EXPECT().Now().Return(testNow).Once()
	fx.publisher.EXPECT().PublishCredentialEvent(mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	out, err := fx.service.Register(ctx, &usecase.RegisterInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", out.Credential.Username)
}

func TestCredentialService_Login_Success(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.credentialRepo.EXPECT().FindByUsername(ctx, "alice").
		Return(&entity.Credential{ID: 1, Username: "alice", PasswordHash: "h"}, nil).Once()
	fx.hasher.EXPECT().Check("pw1", "h").Return(true).Once()
	fx.clock.EXPECT().Now().Return(testNow).Once()
	fx.tokenService.EXPECT().Issue("alice", testAccessTokenTTL, testNow).Return("signed.token.value", nil).Once()

	out, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "signed.token.value", out.AccessToken)
	assert.Equal(t, "bearer", out.TokenType)
	assert.Equal(t, testNow.Add(testAccessTokenTTL), out.ExpiresAt)
}

func TestCredentialService_Login_SubSecondClock(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()
	now := testNow.Add(700 * time.Millisecond)

	fx.credentialRepo.EXPECT().FindByUsername(ctx, "alice").
		Return(&entity.Credential{ID: 1, Username: "alice", PasswordHash: "h"}, nil).Once()
	fx.hasher.EXPECT().Check("pw1", "h").Return(true).Once()
	fx.clock.EXPECT().Now().Return(now).Once()
	fx.tokenService.EXPECT().Issue("alice", testAccessTokenTTL, now).Return("signed.token.value", nil).Once()

	out, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	// Reported expiry matches the whole-second exp claim.
	assert.Equal(t, testNow.Add(testAccessTokenTTL+time.Second), out.ExpiresAt)
}

func TestCredentialService_Login_UnknownUserChecksDecoy(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.credentialRepo.EXPECT().FindByUsername(ctx, "ghost").Return(nil, repository.ErrCredentialNotFound).Once()
	fx.hasher.EXPECT().Check("pw1", testDecoyHash).Return(false).Once()

	out, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "ghost", Password: "pw1"})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestCredentialService_Login_WrongPassword(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.credentialRepo.EXPECT().FindByUsername(ctx, "alice").
		Return(&entity.Credential{ID: 1, Username: "alice", PasswordHash: "h"}, nil).Once()
	fx.hasher.EXPECT().Check("nope", "h").Return(false).Once()

	out, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "nope"})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestCredentialService_Login_StoreFailure(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.credentialRepo.EXPECT().FindByUsername(ctx, "alice").Return(nil, assert.AnError).Once()

	_, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "pw1"})
	require.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestCredentialService_Login_IssueFailure(t *testing.T) {
	fx := createTestCredentialService(t)
	ctx := context.Background()

	fx.credentialRepo.EXPECT().FindByUsername(ctx, "alice").
		Return(&entity.Credential{ID: 1, Username: "alice", PasswordHash: "h"}, nil).Once()
	fx.hasher.EXPECT().Check("pw1", "h").Return(true).Once()
	fx.clock.EXPECT().Now().Return(testNow).Once()
	fx.tokenService.EXPECT().Issue("alice", testAccessTokenTTL, testNow).Return("", assert.AnError).Once()

	_, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "pw1"})
	assert.ErrorIs(t, err, domainerrors.ErrTokenIssueFailed)
}

func TestNewCredentialService_Errors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("missing ttl", func(t *testing.T) {
		_, err := NewCredentialService(CredentialServiceParams{
			Hasher: mockSvc.NewMockPasswordHasher(t),
			Config: &config.Config{Auth: &config.AuthConfig{}},
			Logger: logger,
		})
		require.Error(t, err)
	})

	t.Run("decoy hash failure", func(t *testing.T) {
		hasher := mockSvc.NewMockPasswordHasher(t)
		hasher.EXPECT().Hash(mock.AnythingOfType("string")).Return("", assert.AnError).Once()

		_, err := NewCredentialService(CredentialServiceParams{
			Hasher: hasher,
			Config: testConfig(),
			Logger: logger,
		})
		require.ErrorIs(t, err, assert.AnError)
	})
}
