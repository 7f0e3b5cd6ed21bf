package repository

import (
	"context"

	"github.com/placeshare/api/internal/database"
)

// schemaStatements are idempotent and safe to run on every start
var schemaStatements = []string{
	`DEFINE TABLE IF NOT EXISTS user SCHEMALESS`,
	`DEFINE INDEX IF NOT EXISTS user_email_unique ON TABLE user COLUMNS email UNIQUE`,
	`DEFINE TABLE IF NOT EXISTS place SCHEMALESS`,
	`DEFINE INDEX IF NOT EXISTS place_creator ON TABLE place COLUMNS creator`,
}

// EnsureSchema defines the tables and indexes the repositories rely on.
// The unique email index is what guarantees one account per email.
func EnsureSchema(ctx context.Context, db database.Database) error {
	batch := database.NewAtomicBatch()
	for _, stmt := range schemaStatements {
		batch.Add(stmt, nil)
	}
	return batch.Execute(ctx, db)
}
