package models

import "time"

// Broadcast actions for comment events.
const (
	ActionCommentCreated = "comment_created"
	ActionCommentDeleted = "comment_deleted"
)

// CommentPayload is the snapshot of a comment carried by a comment_created event.
// TimeAgo is computed server-side at publish time.
type CommentPayload struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	Text      string    `json:"text"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
	TimeAgo   string    `json:"time_ago"`
}

// CommentEvent is the wire format pushed to every subscriber of a task's topic.
// Comment is set for comment_created, CommentToken for comment_deleted.
type CommentEvent struct {
	Action       string          `json:"action"`
	Comment      *CommentPayload `json:"comment,omitempty"`
	CommentToken string          `json:"comment_token,omitempty"`
}

// TaskCommentsTopic derives the broadcast topic for one task's comment thread.
// Exactly one topic per task; stable because tokens are stable across renames.
func TaskCommentsTopic(taskToken string) string {
	return "task_comments_" + taskToken
}
