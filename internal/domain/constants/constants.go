// Package constants contains identifiers shared between configuration and infrastructure.
package constants

const (
	// EnvDevelop is the value of env.env for local development.
	EnvDevelop = "develop"

	// PubSubProviderLocal publishes events by HTTP POST to a local endpoint.
	PubSubProviderLocal = "local"
	// PubSubProviderGoogle publishes events to Google Cloud Pub/Sub.
	PubSubProviderGoogle = "google"

	// StoreDriverSQLite keeps credentials in a sqlite database file.
	StoreDriverSQLite = "sqlite"
	// StoreDriverPostgres keeps credentials in PostgreSQL.
	StoreDriverPostgres = "postgres"
	// StoreDriverMemory keeps credentials in process memory only.
	StoreDriverMemory = "memory"

	// TokenTypeBearer is returned to clients alongside an access token.
	TokenTypeBearer = "bearer"
)
