// Package repository is the durable entity store for tasks, comments and users.
// External lookups go through opaque tokens; internal foreign keys stay serial.
package repository

import (
	"database/sql"
	"errors"
)

// Sentinel lookup errors. Services translate these into request failures.
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrUserNotFound    = errors.New("user not found")
)

// Store wraps a postgres pool. Inject it where entity access is needed;
// tests substitute in-memory fakes behind the consumer-side interfaces.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over an open database pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}
