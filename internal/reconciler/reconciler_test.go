package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskboard/internal/models"
)

func createdEvent(token, text, userName string) models.CommentEvent {
	return models.CommentEvent{
		Action: models.ActionCommentCreated,
		Comment: &models.CommentPayload{
			Token:    token,
			Text:     text,
			UserName: userName,
			TimeAgo:  "0 seconds ago",
		},
	}
}

func deletedEvent(token string) models.CommentEvent {
	return models.CommentEvent{Action: models.ActionCommentDeleted, CommentToken: token}
}

func TestCreatedRemovesPlaceholderAndAppends(t *testing.T) {
	l := NewCommentList()
	assert.True(t, l.HasPlaceholder())
	assert.Equal(t, 0, l.Count())

	l.Apply(createdEvent("c1", "first", "Ada"))

	assert.False(t, l.HasPlaceholder())
	assert.Equal(t, 1, l.Count())
	nodes := l.Nodes()
	assert.Equal(t, "first", nodes[0].Text)
	assert.Equal(t, "Ada", nodes[0].UserName)
}

func TestCreatedTwiceWithSameTokenIsIdempotent(t *testing.T) {
	l := NewCommentList()
	// The initiating client sees its own response and its own broadcast echo.
	l.Apply(createdEvent("c1", "hello", "Ada"))
	l.Apply(createdEvent("c1", "hello", "Ada"))

	assert.Equal(t, 1, l.Count())
	assert.Len(t, l.Nodes(), 1)
}

func TestDeletedForAbsentTokenIsNoOp(t *testing.T) {
	l := NewCommentList()
	l.Apply(deletedEvent("ghost"))
	assert.Equal(t, 0, l.Count())

	l.Apply(createdEvent("c1", "keep", "Ada"))
	l.Apply(deletedEvent("ghost"))
	assert.Equal(t, 1, l.Count())
}

func TestDeleteRemovesNodeAndRecounts(t *testing.T) {
	l := NewCommentList()
	l.Apply(createdEvent("c1", "one", "Ada"))
	l.Apply(createdEvent("c2", "two", "Grace"))
	l.Apply(createdEvent("c3", "three", "Alan"))

	l.Apply(deletedEvent("c2"))

	assert.Equal(t, 2, l.Count())
	nodes := l.Nodes()
	assert.Equal(t, "c1", nodes[0].Token)
	assert.Equal(t, "c3", nodes[1].Token)

	// Delete works on the reindexed tail too.
	l.Apply(deletedEvent("c3"))
	assert.Equal(t, 1, l.Count())
	assert.Equal(t, "c1", l.Nodes()[0].Token)
}

func TestSeedSkipsPlaceholderAndDuplicates(t *testing.T) {
	l := NewCommentList()
	l.Seed([]models.CommentPayload{
		{Token: "c1", Text: "one", UserName: "Ada"},
		{Token: "c2", Text: "two", UserName: "Grace"},
		{Token: "c1", Text: "dup", UserName: "Ada"},
	})
	assert.False(t, l.HasPlaceholder())
	assert.Equal(t, 2, l.Count())
}

func TestMalformedCreatedEventIsIgnored(t *testing.T) {
	l := NewCommentList()
	l.Apply(models.CommentEvent{Action: models.ActionCommentCreated})
	assert.Equal(t, 0, l.Count())
	assert.True(t, l.HasPlaceholder())
}
