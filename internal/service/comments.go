package service

import (
	"context"
	"strings"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/timeago"
	"taskboard/pkg/logger"
)

// CommentStore is the slice of the entity store the comment write path needs.
type CommentStore interface {
	FindTaskByToken(ctx context.Context, token string) (*models.Task, error)
	FindCommentByToken(ctx context.Context, taskID int64, token string) (*models.Comment, error)
	ListComments(ctx context.Context, taskID int64) ([]models.Comment, error)
	CreateComment(ctx context.Context, c *models.Comment) error
	DeleteComment(ctx context.Context, id int64) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// Publisher fans an event out to a topic's current subscribers. Satisfied by
// *bus.Bus; publishing never blocks the write path.
type Publisher interface {
	Publish(topic string, event interface{})
}

// Firehose mirrors broadcast events to an external stream, best-effort.
// May be nil when no stream is configured.
type Firehose func(ctx context.Context, taskToken string, ev models.CommentEvent)

// CommentService orchestrates validate -> persist -> publish for the comment
// thread of a task.
type CommentService struct {
	store    CommentStore
	bus      Publisher
	firehose Firehose
	now      func() time.Time
}

// NewCommentService wires the write path. firehose may be nil.
func NewCommentService(store CommentStore, bus Publisher, firehose Firehose) *CommentService {
	return &CommentService{store: store, bus: bus, firehose: firehose, now: time.Now}
}

// Create persists a new comment on the task identified by taskToken and then
// publishes exactly one comment_created event on the task's topic. The publish
// happens only after the insert commits, and its outcome never affects the
// returned result: the requester gets the payload through this return value,
// every other viewer through the broadcast.
func (s *CommentService) Create(ctx context.Context, taskToken string, userID int64, text string) (*models.CommentPayload, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "text", Message: "can't be blank"}
	}
	task, err := s.store.FindTaskByToken(ctx, taskToken)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		TaskID:    task.ID,
		UserID:    userID,
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	payload := &models.CommentPayload{
		ID:        comment.ID,
		Token:     comment.Token,
		Text:      comment.Text,
		UserName:  user.Name,
		CreatedAt: comment.CreatedAt,
		TimeAgo:   timeago.Format(comment.CreatedAt, s.now()),
	}
	ev := models.CommentEvent{Action: models.ActionCommentCreated, Comment: payload}
	s.bus.Publish(models.TaskCommentsTopic(taskToken), ev)
	if s.firehose != nil {
		s.firehose(ctx, taskToken, ev)
	}
	logger.Debug(ctx, "Comment created", "task", taskToken, "comment", comment.Token)
	return payload, nil
}

// Delete removes the comment identified by commentToken, scoped to the task
// identified by taskToken, and publishes a comment_deleted event. A token that
// belongs to a different task fails with ErrCommentNotFound.
func (s *CommentService) Delete(ctx context.Context, taskToken, commentToken string) error {
	task, err := s.store.FindTaskByToken(ctx, taskToken)
	if err != nil {
		return err
	}
	comment, err := s.store.FindCommentByToken(ctx, task.ID, commentToken)
	if err != nil {
		return err
	}
	if err := s.store.DeleteComment(ctx, comment.ID); err != nil {
		return err
	}

	ev := models.CommentEvent{Action: models.ActionCommentDeleted, CommentToken: comment.Token}
	s.bus.Publish(models.TaskCommentsTopic(taskToken), ev)
	if s.firehose != nil {
		s.firehose(ctx, taskToken, ev)
	}
	logger.Debug(ctx, "Comment deleted", "task", taskToken, "comment", commentToken)
	return nil
}

// List returns the rendered payloads of a task's comment thread, oldest first.
func (s *CommentService) List(ctx context.Context, taskToken string) ([]models.CommentPayload, error) {
	task, err := s.store.FindTaskByToken(ctx, taskToken)
	if err != nil {
		return nil, err
	}
	comments, err := s.store.ListComments(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	payloads := make([]models.CommentPayload, 0, len(comments))
	for _, c := range comments {
		name := ""
		if u, err := s.store.GetUser(ctx, c.UserID); err == nil {
			name = u.Name
		}
		payloads = append(payloads, models.CommentPayload{
			ID:        c.ID,
			Token:     c.Token,
			Text:      c.Text,
			UserName:  name,
			CreatedAt: c.CreatedAt,
			TimeAgo:   timeago.Format(c.CreatedAt, now),
		})
	}
	return payloads, nil
}
