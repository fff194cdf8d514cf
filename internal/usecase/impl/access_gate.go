package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "credgate/internal/delivery/context"
	"credgate/internal/domain/entity"
	domainerrors "credgate/internal/domain/errors"
	"credgate/internal/domain/repository"
	"credgate/internal/domain/service"
	"credgate/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// bearerPrefix is matched case-sensitively, including the single space.
const bearerPrefix = "Bearer "

type accessGate struct {
	tokenService   service.TokenService
	credentialRepo repository.CredentialRepository
	logger         *slog.Logger
}

// AccessGateParams holds dependencies for the access gate, injected by Fx.
type AccessGateParams struct {
	fx.In

	TokenService   service.TokenService
	CredentialRepo repository.CredentialRepository
	Logger         *slog.Logger
}

// NewAccessGate is the constructor for the access gate.
func NewAccessGate(params AccessGateParams) usecase.AccessGate {
	return &accessGate{
		tokenService:   params.TokenService,
		credentialRepo: params.CredentialRepo,
		logger:         params.Logger,
	}
}

// Authorize validates the bearer token in rawHeader and resolves its subject.
// Every call hits the store so that removed users lose access immediately.
func (g *accessGate) Authorize(ctx context.Context, rawHeader string, now time.Time) (*entity.Credential, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, g.logger)

	token, ok := extractBearerToken(rawHeader)
	if !ok {
		logger.Debug("Rejected request without a bearer token")

		return nil, errors.WithStack(domainerrors.ErrAuthHeaderMalformed)
	}

	subject, err := g.tokenService.Validate(token, now)
	if err != nil {
		invalidErr := domainerrors.NewInvalidTokenError(err)
		logger.Debug("Rejected invalid token", slog.String("reason", invalidErr.ErrorCode()))

		return nil, invalidErr
	}

	credential, err := g.credentialRepo.FindByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			logger.Debug("Rejected token for unknown subject", slog.String("username", subject))

			return nil, errors.WithStack(domainerrors.ErrUnknownSubject)
		}

		return nil, errors.Wrap(err, "failed to resolve token subject")
	}

	return credential.WithoutSecret(), nil
}

// extractBearerToken returns the token segment of an "Authorization: Bearer <token>" value.
func extractBearerToken(rawHeader string) (string, bool) {
	token, found := strings.CutPrefix(rawHeader, bearerPrefix)
	if !found || token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}

	return token, true
}
