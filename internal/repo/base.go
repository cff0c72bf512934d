// Package repo holds the gorm helpers shared by the domain repositories.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/pkg/pagination"
)

// Base embeds a connection into read-mostly repositories.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx; a nil ctx returns it unbound.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// WithTx returns a copy that issues its queries on tx.
func (b Base) WithTx(tx *gorm.DB) Base {
	return Base{db: tx}
}

// Paginate is a gorm scope applying the normalized page window.
func Paginate(page pagination.Params) func(*gorm.DB) *gorm.DB {
	page = page.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(page.Offset()).Limit(page.Limit)
	}
}
