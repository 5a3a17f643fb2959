// Package testutil provides the shared test fixtures: an in-memory database,
// an in-process Redis, random entity factories with tracked cleanup, and an
// HTTP login helper.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"itemstore/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB creates a fresh in-memory SQLite database with the schema
// migrated. The shared-cache DSN is keyed by test name so the pooled
// connections all see the same database and tests stay isolated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Item{}); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// NewTestRedis returns a Redis client backed by an in-process miniredis.
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}
