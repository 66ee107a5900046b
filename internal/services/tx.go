package services

import (
	"context"

	"gorm.io/gorm"
)

// runInTx wraps fn in a database transaction. With no database handle the
// unit runs directly against whatever store the repos wrap, which is how the
// service tests drive in-memory stores.
func runInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
