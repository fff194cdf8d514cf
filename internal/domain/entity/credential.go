// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// Credential is a stored login record: a unique, case-sensitive username and the bcrypt hash of its password.
// The hash never leaves the persistence and authentication layers.
type Credential struct {
	ID           int64     // Store-generated identifier.
	Username     string    // Unique, case-sensitive login name.
	PasswordHash string    // bcrypt hash with embedded salt and cost.
	CreatedAt    time.Time // Timestamp of when the credential was persisted.
}

// WithoutSecret returns a copy of the credential with the password hash cleared,
// suitable for handing back to callers outside the authentication core.
func (c *Credential) WithoutSecret() *Credential {
	if c == nil {
		return nil
	}

	return &Credential{
		ID:        c.ID,
		Username:  c.Username,
		CreatedAt: c.CreatedAt,
	}
}
