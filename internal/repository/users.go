package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"taskboard/internal/models"
	"taskboard/pkg/logger"
)

// GetUser returns a user by internal ID.
func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, token, name FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Token, &u.Name)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository GetUser failed", "error", err, "id", id)
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all users ordered by name.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, token, name FROM users ORDER BY name ASC`)
	if err != nil {
		logger.Error(ctx, "Repository ListUsers failed", "error", err)
		return nil, err
	}
	defer rows.Close()
	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Token, &u.Name); err != nil {
			logger.Error(ctx, "Repository scan user failed", "error", err)
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateUser inserts a new user (used by seeding).
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.Token == "" {
		u.Token = uuid.New().String()
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (token, name) VALUES ($1, $2) RETURNING id`,
		u.Token, u.Name).Scan(&u.ID)
	if err != nil {
		logger.Error(ctx, "Repository CreateUser failed", "error", err)
		return err
	}
	return nil
}
