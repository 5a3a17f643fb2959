package main

import (
	"itemstore/internal/config"
	"itemstore/internal/db"
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig()

	// Database Source Name (DSN) for MySQL connection
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db.Migrate(dsn)
}
