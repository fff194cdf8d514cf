// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"credgate/config"
	deliverycontext "credgate/internal/delivery/context"
	"credgate/internal/domain/constants"
	"credgate/internal/domain/entity"
	domainerrors "credgate/internal/domain/errors"
	"credgate/internal/domain/repository"
	"credgate/internal/domain/service"
	"credgate/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const eventPublishTimeout = 5 * time.Second

// credentialService implements the CredentialUsecase interface.
type credentialService struct {
	credentialRepo repository.CredentialRepository
	hasher         service.PasswordHasher
	tokenService   service.TokenService
	publisher      service.EventPublisher
	clock          service.Clock
	accessTokenTTL time.Duration
	// decoyHash is checked when the username is unknown so both login failures cost one bcrypt verification.
	decoyHash string
	logger    *slog.Logger
}

// CredentialServiceParams holds dependencies for CredentialService, injected by Fx.
type CredentialServiceParams struct {
	fx.In

	CredentialRepo repository.CredentialRepository
	Hasher         service.PasswordHasher
	TokenService   service.TokenService
	Publisher      service.EventPublisher `optional:"true"`
	Clock          service.Clock
	Config         *config.Config
	Logger         *slog.Logger
}

// NewCredentialService is the constructor for credentialService.
func NewCredentialService(params CredentialServiceParams) (usecase.CredentialUsecase, error) {
	if params.Config == nil || params.Config.Auth == nil || params.Config.Auth.AccessTokenTTL <= 0 {
		return nil, errors.New("auth.accessTokenTTL must be a positive duration")
	}

	decoyHash, err := params.Hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare decoy password hash")
	}

	return &credentialService{
		credentialRepo: params.CredentialRepo,
		hasher:         params.Hasher,
		tokenService:   params.TokenService,
		publisher:      params.Publisher,
		clock:          params.Clock,
		accessTokenTTL: params.Config.Auth.AccessTokenTTL,
		decoyHash:      decoyHash,
		logger:         params.Logger,
	}, nil
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *credentialService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a credential for an unused username.
func (srv *credentialService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Debug("Starting registration", slog.String("username", input.Username))

	_, err := srv.credentialRepo.FindByUsername(ctx, input.Username)
	switch {
	case err == nil:
		srv.log(ctx).Warn("Registration rejected, username taken", slog.String("username", input.Username))

		return nil, errors.Wrap(domainerrors.ErrUsernameTaken, "registration failed")
	case !errors.Is(err, repository.ErrCredentialNotFound):
		return nil, errors.Wrap(err, "failed to look up username during registration")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Warn("Failed to hash password during registration", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	credential, err := srv.credentialRepo.Create(ctx, input.Username, hashedPassword)
	if err != nil {
		// A concurrent registration won the unique index.
		if errors.Is(err, repository.ErrDuplicateUsername) {
			srv.log(ctx).Warn("Registration lost race, username taken", slog.String("username", input.Username))

			return nil, errors.Wrap(domainerrors.ErrUsernameTaken, "registration failed")
		}

		return nil, errors.Wrap(err, "failed to create credential during registration")
	}

	srv.publishRegistered(ctx, credential)

	srv.log(ctx).Info("Credential registered", slog.Int64("credentialID", credential.ID))

	return &usecase.RegisterOutput{Credential: credential.WithoutSecret()}, nil
}

// Login verifies a password and issues an access token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (srv *credentialService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("username", input.Username))

	credential, err := srv.credentialRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if !errors.Is(err, repository.ErrCredentialNotFound) {
			return nil, errors.Wrap(err, "failed to look up credential during login")
		}

		srv.hasher.Check(input.Password, srv.decoyHash)
		srv.log(ctx).Warn("Login failed", slog.String("username", input.Username))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	if !srv.hasher.Check(input.Password, credential.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("username", input.Username))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	now := srv.clock.Now()
	accessToken, err := srv.tokenService.Issue(credential.Username, srv.accessTokenTTL, now)
	if err != nil {
		srv.log(ctx).Error("Failed to issue access token", slog.Int64("credentialID", credential.ID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, "login failed")
	}

	srv.log(ctx).Debug("Login succeeded", slog.Int64("credentialID", credential.ID))

	return &usecase.LoginOutput{
		AccessToken: accessToken,
		TokenType:   constants.TokenTypeBearer,
		ExpiresAt:   service.TokenExpiry(now, srv.accessTokenTTL),
	}, nil
}

// publishRegistered emits the audit event. Failures are logged and never fail the registration.
func (srv *credentialService) publishRegistered(ctx context.Context, credential *entity.Credential) {
	if srv.publisher == nil {
		return
	}

	event := &service.CredentialEvent{
		EventID:      uuid.NewString(),
		RequestID:    deliverycontext.GetRequestIDFromContext(ctx),
		Type:         service.CredentialEventRegistered,
		CredentialID: credential.ID,
		Username:     credential.Username,
		OccurredAt:   srv.clock.Now(),
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()

	if err := srv.publisher.PublishCredentialEvent(publishCtx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish credential event",
			slog.String("eventID", event.EventID),
			slog.String("eventType", event.Type),
			slog.Any("error", err),
		)
	}
}
