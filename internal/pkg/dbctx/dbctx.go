// Package dbctx is the unit-of-work handle passed into every repo method.
package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction. A nil
// Tx means the repo runs on its own connection; review and cascade-delete
// paths pass the shared transaction so their writes commit or roll back as
// one.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
