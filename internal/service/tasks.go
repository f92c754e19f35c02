package service

import (
	"context"
	"strings"
	"time"

	"taskboard/internal/models"
)

// TaskStore is the slice of the entity store the task use cases need.
type TaskStore interface {
	FindTaskByToken(ctx context.Context, token string) (*models.Task, error)
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, t *models.Task) error
	UpdateTask(ctx context.Context, t *models.Task) error
	DeleteTask(ctx context.Context, token string) error
	AddFollower(ctx context.Context, token string, userID int64) (*models.Task, error)
	RemoveFollower(ctx context.Context, token string, userID int64) (*models.Task, error)
}

// TaskInput carries the writable task fields from a form submission.
type TaskInput struct {
	Name              string
	Status            string
	DueDate           time.Time
	Description       string
	AssignedToID      int64
	CreatedByID       int64
	EstimatedDuration string
}

// TaskService implements task CRUD and follower edits.
type TaskService struct {
	store TaskStore
	now   func() time.Time
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store, now: time.Now}
}

func (s *TaskService) validate(in *TaskInput, creating bool) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Message: "can't be blank"}
	}
	if in.Status == "" {
		in.Status = models.StatusPending
	}
	if in.Status != models.StatusPending && in.Status != models.StatusCompleted {
		return &ValidationError{Field: "status", Message: "is not included in the list"}
	}
	if in.DueDate.IsZero() {
		return &ValidationError{Field: "due_date", Message: "can't be blank"}
	}
	// Past due dates are allowed for completed items, and on edits generally.
	if creating && in.Status != models.StatusCompleted {
		today := s.now().Truncate(24 * time.Hour)
		if in.DueDate.Before(today) {
			return &ValidationError{Field: "due_date", Message: "can't be in the past"}
		}
	}
	return nil
}

// Create validates and persists a new task.
func (s *TaskService) Create(ctx context.Context, in TaskInput) (*models.Task, error) {
	if err := s.validate(&in, true); err != nil {
		return nil, err
	}
	task := &models.Task{
		Name:              in.Name,
		Status:            in.Status,
		DueDate:           in.DueDate,
		Description:       in.Description,
		AssignedToID:      in.AssignedToID,
		CreatedByID:       in.CreatedByID,
		EstimatedDuration: in.EstimatedDuration,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Update validates and applies owner edits to an existing task.
func (s *TaskService) Update(ctx context.Context, token string, in TaskInput) (*models.Task, error) {
	task, err := s.store.FindTaskByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.validate(&in, false); err != nil {
		return nil, err
	}
	task.Name = in.Name
	task.Status = in.Status
	task.DueDate = in.DueDate
	task.Description = in.Description
	if in.AssignedToID != 0 {
		task.AssignedToID = in.AssignedToID
	}
	task.EstimatedDuration = in.EstimatedDuration
	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SetStatus toggles a task between pending and completed.
func (s *TaskService) SetStatus(ctx context.Context, token, status string) (*models.Task, error) {
	if status != models.StatusPending && status != models.StatusCompleted {
		return nil, &ValidationError{Field: "status", Message: "is not included in the list"}
	}
	task, err := s.store.FindTaskByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	task.Status = status
	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Get returns one task by token.
func (s *TaskService) Get(ctx context.Context, token string) (*models.Task, error) {
	return s.store.FindTaskByToken(ctx, token)
}

// List returns all tasks, newest first.
func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	return s.store.ListTasks(ctx)
}

// Delete destroys a task and, through the store, its comments.
func (s *TaskService) Delete(ctx context.Context, token string) error {
	return s.store.DeleteTask(ctx, token)
}

// AddFollower adds a user to the task's follower set (idempotent).
func (s *TaskService) AddFollower(ctx context.Context, token string, userID int64) (*models.Task, error) {
	return s.store.AddFollower(ctx, token, userID)
}

// RemoveFollower removes a user from the task's follower set (no-op if absent).
func (s *TaskService) RemoveFollower(ctx context.Context, token string, userID int64) (*models.Task, error) {
	return s.store.RemoveFollower(ctx, token, userID)
}
