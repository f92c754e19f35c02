package models

import "time"

// Task statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Task represents a to-do item. Token is the opaque external identifier used in
// URLs and topic names; ID is the internal serial key.
type Task struct {
	ID                int64     `json:"id"`
	Token             string    `json:"token"`
	Name              string    `json:"name"`
	Status            string    `json:"status"`
	DueDate           time.Time `json:"due_date"`
	Description       string    `json:"description"`
	AssignedToID      int64     `json:"assigned_to_id"`
	CreatedByID       int64     `json:"created_by_id"`
	Followers         []int64   `json:"followers"`
	EstimatedDuration string    `json:"estimated_duration,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Comment belongs to exactly one task and is cascade-deleted with it.
type Comment struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	TaskID    int64     `json:"task_id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// User is referenced by tasks (assignee/creator/follower) and comments, never owned.
type User struct {
	ID    int64  `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
}
