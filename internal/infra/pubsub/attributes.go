package pubsub

import (
	"strconv"

	"credgate/internal/domain/service"
)

// eventAttributes returns the message attributes used for subscription filtering and tracing.
func eventAttributes(event *service.CredentialEvent) map[string]string {
	attributes := map[string]string{
		"event_id":      event.EventID,
		"event_type":    event.Type,
		"credential_id": strconv.FormatInt(event.CredentialID, 10),
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return attributes
}
