package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"taskboard/internal/models"
	"taskboard/pkg/logger"
)

const taskColumns = `id, token, name, status, due_date, description, assigned_to_id, created_by_id, followers, estimated_duration, created_at, updated_at`

func scanTask(row interface{ Scan(...interface{}) error }) (*models.Task, error) {
	var t models.Task
	var followers []byte
	err := row.Scan(&t.ID, &t.Token, &t.Name, &t.Status, &t.DueDate, &t.Description,
		&t.AssignedToID, &t.CreatedByID, &followers, &t.EstimatedDuration, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(followers) > 0 {
		if err := json.Unmarshal(followers, &t.Followers); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

// FindTaskByToken looks a task up by its opaque token.
func (s *Store) FindTaskByToken(ctx context.Context, token string) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE token = $1`, token)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository FindTaskByToken failed", "error", err, "token", token)
		return nil, err
	}
	return t, nil
}

// ListTasks returns all tasks, newest first.
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		logger.Error(ctx, "Repository ListTasks failed", "error", err)
		return nil, err
	}
	defer rows.Close()
	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error(ctx, "Repository scan task failed", "error", err)
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// CreateTask inserts a new task, generating its token and timestamps.
func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	if t.Token == "" {
		t.Token = uuid.New().String()
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Followers == nil {
		t.Followers = []int64{}
	}
	followers, err := json.Marshal(t.Followers)
	if err != nil {
		return err
	}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO tasks (token, name, status, due_date, description, assigned_to_id, created_by_id, followers, estimated_duration, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		t.Token, t.Name, t.Status, t.DueDate, t.Description, t.AssignedToID, t.CreatedByID,
		followers, t.EstimatedDuration, t.CreatedAt, t.UpdatedAt).Scan(&t.ID)
	if err != nil {
		logger.Error(ctx, "Repository CreateTask failed", "error", err)
		return err
	}
	return nil
}

// UpdateTask writes the mutable fields of a task back by token.
func (s *Store) UpdateTask(ctx context.Context, t *models.Task) error {
	t.UpdatedAt = time.Now()
	followers, err := json.Marshal(t.Followers)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET name = $1, status = $2, due_date = $3, description = $4,
		 assigned_to_id = $5, followers = $6, estimated_duration = $7, updated_at = $8
		 WHERE token = $9`,
		t.Name, t.Status, t.DueDate, t.Description, t.AssignedToID, followers,
		t.EstimatedDuration, t.UpdatedAt, t.Token)
	if err != nil {
		logger.Error(ctx, "Repository UpdateTask failed", "error", err, "token", t.Token)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// DeleteTask removes a task by token. Its comments go with it (ON DELETE CASCADE).
func (s *Store) DeleteTask(ctx context.Context, token string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE token = $1`, token)
	if err != nil {
		logger.Error(ctx, "Repository DeleteTask failed", "error", err, "token", token)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// AddFollower adds userID to the task's follower set. Single-row
// read-modify-write; concurrent edits are last-write-wins.
func (s *Store) AddFollower(ctx context.Context, token string, userID int64) (*models.Task, error) {
	t, err := s.FindTaskByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	for _, id := range t.Followers {
		if id == userID {
			return t, nil
		}
	}
	t.Followers = append(t.Followers, userID)
	if err := s.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// RemoveFollower removes userID from the task's follower set. Removing an
// absent follower is a no-op.
func (s *Store) RemoveFollower(ctx context.Context, token string, userID int64) (*models.Task, error) {
	t, err := s.FindTaskByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	kept := t.Followers[:0]
	for _, id := range t.Followers {
		if id != userID {
			kept = append(kept, id)
		}
	}
	t.Followers = kept
	if err := s.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
