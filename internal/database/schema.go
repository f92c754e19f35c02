package database

import (
	"context"
	"errors"

	"taskboard/pkg/logger"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		token TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id BIGSERIAL PRIMARY KEY,
		token TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		due_date DATE NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		assigned_to_id BIGINT NOT NULL REFERENCES users(id),
		created_by_id BIGINT NOT NULL REFERENCES users(id),
		followers JSONB NOT NULL DEFAULT '[]',
		estimated_duration TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id BIGSERIAL PRIMARY KEY,
		token TEXT NOT NULL UNIQUE,
		task_id BIGINT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id),
		text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_task_id ON comments(task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at DESC)`,
}

// MigrateOrCreateSchema creates the tables if they do not exist yet.
func MigrateOrCreateSchema(ctx context.Context) error {
	db := DB(ctx)
	if db == nil {
		return errors.New("database unavailable")
	}
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.Error(ctx, "Schema statement failed", "error", err)
			return err
		}
	}
	logger.Info(ctx, "Schema ensured")
	return nil
}
