// Package repository holds the GORM data access layer, including the hot,
// tagged and top-tag aggregation queries.
package repository

import (
	"context"

	"askme/internal/database"

	"gorm.io/gorm"
)

// reader returns the read replica when one is configured, bound to ctx.
// Writes go through the primary handle each repository holds.
func reader(ctx context.Context, primary *gorm.DB) *gorm.DB {
	db := primary
	if replica := database.ReadReplica(); replica != nil {
		db = replica
	}
	return db.WithContext(ctx)
}
