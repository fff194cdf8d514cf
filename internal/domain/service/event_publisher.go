package service

import (
	"context"
	"time"
)

// CredentialEventRegistered is published after a new credential is persisted.
const CredentialEventRegistered = "credential.registered"

// CredentialEvent is an audit record about a credential lifecycle change.
// It never carries passwords, hashes or tokens.
type CredentialEvent struct {
	EventID      string    `json:"event_id"`
	RequestID    string    `json:"request_id,omitempty"` // For distributed tracing
	Type         string    `json:"type"`
	CredentialID int64     `json:"credential_id"`
	Username     string    `json:"username"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishCredentialEvent publishes a credential audit event
	PublishCredentialEvent(ctx context.Context, event *CredentialEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
