// Package dbtest opens throwaway in-memory databases for package tests.
package dbtest

import (
	"testing"

	"github.com/sopheaklaing/pharmacy/internal/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Open wires database.DB to a fresh in-memory sqlite instance, migrated
// with the full schema. A single connection is enforced because every
// sqlite ":memory:" connection is its own database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	database.DB = db
	return db
}
