package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"taskboard/internal/models"
	"taskboard/pkg/logger"
)

// FindCommentByToken looks a comment up by token, scoped to its owning task.
// A token that exists under a different task must not match.
func (s *Store) FindCommentByToken(ctx context.Context, taskID int64, token string) (*models.Comment, error) {
	var c models.Comment
	err := s.db.QueryRowContext(ctx,
		`SELECT id, token, task_id, user_id, text, created_at FROM comments
		 WHERE token = $1 AND task_id = $2`, token, taskID).
		Scan(&c.ID, &c.Token, &c.TaskID, &c.UserID, &c.Text, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository FindCommentByToken failed", "error", err, "token", token)
		return nil, err
	}
	return &c, nil
}

// ListComments returns a task's comments, oldest first.
func (s *Store) ListComments(ctx context.Context, taskID int64) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, token, task_id, user_id, text, created_at FROM comments
		 WHERE task_id = $1 ORDER BY created_at ASC`, taskID)
	if err != nil {
		logger.Error(ctx, "Repository ListComments failed", "error", err)
		return nil, err
	}
	defer rows.Close()
	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Token, &c.TaskID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
			logger.Error(ctx, "Repository scan comment failed", "error", err)
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CreateComment inserts a new comment, generating its token.
func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	if c.Token == "" {
		c.Token = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO comments (token, task_id, user_id, text, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		c.Token, c.TaskID, c.UserID, c.Text, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		logger.Error(ctx, "Repository CreateComment failed", "error", err)
		return err
	}
	return nil
}

// DeleteComment removes a comment by internal ID.
func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		logger.Error(ctx, "Repository DeleteComment failed", "error", err, "id", id)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCommentNotFound
	}
	return nil
}
