// Package handler contains the Pub/Sub push handlers of the audit worker.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"credgate/config"
	deliverycontext "credgate/internal/delivery/context"
	"credgate/internal/domain/constants"
	"credgate/internal/domain/service"
	"credgate/internal/infra/pubsub"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

var errMissingPushToken = errors.New("push request carries no bearer token")

// TokenVerifier validates the signature and audience of the OIDC token Pub/Sub attaches to push requests.
type TokenVerifier func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// PushHandler receives credential events and writes them to the audit log
type PushHandler struct {
	verifyPushAuth bool
	audience       string
	serviceAccount string
	verifyToken    TokenVerifier
	logger         *slog.Logger
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) (*PushHandler, error) {
	// Only Google push subscriptions outside development carry OIDC tokens
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	h := &PushHandler{
		verifyPushAuth: verifyPushAuth,
		verifyToken:    idtoken.Validate,
		logger:         params.Logger,
	}
	if !verifyPushAuth {
		return h, nil
	}

	h.audience = strings.TrimSpace(params.Config.PubSub.PushAudience)
	h.serviceAccount = strings.TrimSpace(params.Config.PubSub.PushServiceAccount)
	if h.audience == "" {
		return nil, errors.New("pubsub.pushAudience is required to verify Google push requests")
	}

	return h, nil
}

// HandlePush audits one pushed credential event.
// Undecodable messages get 400 and unknown event types 200, so Pub/Sub never redelivers either.
func (h *PushHandler) HandlePush(c echo.Context) error {
	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger)

	if h.verifyPushAuth {
		if err := h.authenticate(c); err != nil {
			logger.Warn("[Worker] Rejected push request", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg pubsub.PubSubPushMessage
	if err := c.Bind(&pushMsg); err != nil {
		logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	event, err := decodeCredentialEvent(&pushMsg)
	if err != nil {
		logger.Error("[Worker] Dropping undecodable credential event",
			slog.String("message_id", pushMsg.Message.MessageID),
			slog.Any("error", err),
		)

		return c.NoContent(http.StatusBadRequest)
	}

	logger = logger.With(
		slog.String("origin_request_id", originRequestID(&pushMsg, event)),
		slog.String("event_id", event.EventID),
		slog.String("event_type", event.Type),
	)

	if event.Type != service.CredentialEventRegistered {
		logger.Warn("[Worker] Ignoring unknown credential event type")

		return c.NoContent(http.StatusOK)
	}

	logger.Info("[Worker] Credential event audited",
		slog.Int64("credential_id", event.CredentialID),
		slog.String("username", event.Username),
		slog.Time("occurred_at", event.OccurredAt),
		slog.String("message_id", pushMsg.Message.MessageID),
	)

	return c.NoContent(http.StatusOK)
}

func (h *PushHandler) authenticate(c echo.Context) error {
	token, found := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	if !found || token == "" {
		return errMissingPushToken
	}

	payload, err := h.verifyToken(c.Request().Context(), token, h.audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	return h.checkClaims(payload)
}

// checkClaims requires a Google issuer and, when configured, the subscription's service account.
func (h *PushHandler) checkClaims(payload *idtoken.Payload) error {
	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	if h.serviceAccount != "" {
		if email, _ := payload.Claims["email"].(string); email != h.serviceAccount {
			return errors.Errorf("unexpected signer: %q", email)
		}
	}

	return nil
}

func decodeCredentialEvent(pushMsg *pubsub.PubSubPushMessage) (*service.CredentialEvent, error) {
	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		return nil, errors.Wrap(err, "message data is not base64")
	}

	var event service.CredentialEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, errors.Wrap(err, "message data is not a credential event")
	}
	if event.EventID == "" || event.Type == "" || event.CredentialID <= 0 {
		return nil, errors.New("credential event is missing event_id, type or credential_id")
	}

	return &event, nil
}

// originRequestID is the id of the API request that produced the event, if known.
func originRequestID(pushMsg *pubsub.PubSubPushMessage, event *service.CredentialEvent) string {
	if requestID := pushMsg.Message.Attributes["request_id"]; requestID != "" {
		return requestID
	}

	return event.RequestID
}
