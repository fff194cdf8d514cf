package gormdb

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// isUniqueConstraintViolation reports whether err was caused by a unique index.
// Dialects with TranslateError support surface gorm.ErrDuplicatedKey; the message
// checks cover drivers that return the raw error.
func isUniqueConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "unique constraint failed") || // sqlite
		strings.Contains(errMsg, "duplicate key value") || // postgres
		strings.Contains(errMsg, "sqlstate 23505")
}
