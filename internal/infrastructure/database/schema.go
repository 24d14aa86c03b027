package database

import (
	"context"
	_ "embed"
	"fmt"
	"log"
)

//go:embed schema.sql
var schemaSQL string

const dropSQL = `DROP TABLE IF EXISTS courses; DROP TABLE IF EXISTS authors;`

// EnsureSchema creates the authors and courses tables when they are missing.
// With reset set it drops them first, mirroring a fresh database on every start.
func (db *PostgresDB) EnsureSchema(ctx context.Context, reset bool) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	if reset {
		log.Println("[DATABASE] Dropping existing tables...")
		if _, err := db.Pool.Exec(ctx, dropSQL); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
	}

	if _, err := db.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	log.Println("[DATABASE] Schema ready")
	return nil
}
