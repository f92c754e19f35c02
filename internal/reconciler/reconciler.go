// Package reconciler keeps one viewer's rendered comment list in sync with
// inbound broadcast events, without a full reload.
package reconciler

import (
	"sync"

	"taskboard/internal/models"
)

// Node is one rendered comment, keyed by its token.
type Node struct {
	Token    string
	Text     string
	UserName string
	TimeAgo  string
}

// CommentList is the in-memory view of a task's comment thread for one client
// session. It starts with the "no comments yet" placeholder unless seeded.
type CommentList struct {
	mu          sync.Mutex
	nodes       []Node
	index       map[string]int
	placeholder bool
}

// NewCommentList returns an empty list showing the placeholder.
func NewCommentList() *CommentList {
	return &CommentList{index: make(map[string]int), placeholder: true}
}

// Seed loads the server-rendered thread the page arrived with.
func (l *CommentList) Seed(payloads []models.CommentPayload) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range payloads {
		if _, ok := l.index[p.Token]; ok {
			continue
		}
		l.placeholder = false
		l.index[p.Token] = len(l.nodes)
		l.nodes = append(l.nodes, Node{Token: p.Token, Text: p.Text, UserName: p.UserName, TimeAgo: p.TimeAgo})
	}
}

// Apply reconciles one inbound event. Applying the same comment_created twice
// yields one node (the duplicate is a no-op), which covers the initiating
// client receiving both its own response and its own broadcast echo. A
// comment_deleted for an absent token is a no-op, not an error.
func (l *CommentList) Apply(ev models.CommentEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch ev.Action {
	case models.ActionCommentCreated:
		if ev.Comment == nil {
			return
		}
		if _, ok := l.index[ev.Comment.Token]; ok {
			return
		}
		l.placeholder = false
		l.index[ev.Comment.Token] = len(l.nodes)
		l.nodes = append(l.nodes, Node{
			Token:    ev.Comment.Token,
			Text:     ev.Comment.Text,
			UserName: ev.Comment.UserName,
			TimeAgo:  ev.Comment.TimeAgo,
		})
	case models.ActionCommentDeleted:
		i, ok := l.index[ev.CommentToken]
		if !ok {
			return
		}
		l.nodes = append(l.nodes[:i], l.nodes[i+1:]...)
		delete(l.index, ev.CommentToken)
		for j := i; j < len(l.nodes); j++ {
			l.index[l.nodes[j].Token] = j
		}
	}
}

// Count is the value of the comment count badge.
func (l *CommentList) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.nodes)
}

// Nodes returns the rendered comments in display order.
func (l *CommentList) Nodes() []Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Node, len(l.nodes))
	copy(out, l.nodes)
	return out
}

// HasPlaceholder reports whether the "no comments yet" marker is shown.
func (l *CommentList) HasPlaceholder() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.placeholder
}
