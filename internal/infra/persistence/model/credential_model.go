package model

import "time"

// CredentialModel mirrors the 'users' table. The database assigns IDs and enforces username uniqueness.
type CredentialModel struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Username       string `gorm:"type:varchar(150);uniqueIndex;not null"`
	HashedPassword string `gorm:"column:hashed_password;type:varchar(255);not null"`
	CreatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (CredentialModel) TableName() string {
	return "users"
}
