package persistence

import (
	"errors"

	"github.com/landmarket/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// lookupErr maps a failed single-row lookup to NOT_FOUND or STORAGE_FAILURE
func lookupErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NotFound(entity)
	}
	return shared.Storage(err)
}

// writeErr maps a failed insert or update, turning unique violations into ALREADY_EXISTS.
// Requires gorm.Config.TranslateError.
func writeErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.AlreadyExists(entity)
	}
	return shared.Storage(err)
}

// updateRow writes every column of an existing row by primary key.
// Unlike Save it never falls back to an insert, so RowsAffected 0 means missing.
func updateRow(db *gorm.DB, model any) *gorm.DB {
	return db.Model(model).Select("*").Omit("id", "created_at").Updates(model)
}
