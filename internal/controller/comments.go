package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/cache"
	"taskboard/pkg/logger"
)

// GetComments returns a task's comment thread, cache-first as raw bytes.
func (h *Controller) GetComments(c *gin.Context) {
	ctx := c.Request.Context()
	token := c.Param("token")
	if b, ok := cache.GetRawTaskComments(ctx, token); ok {
		c.Data(http.StatusOK, "application/json", b)
		return
	}
	v, err, _ := h.group.Do("comments:"+token, func() (interface{}, error) {
		payloads, err := h.comments.List(context.Background(), token)
		if err != nil {
			return nil, err
		}
		return json.Marshal(payloads)
	})
	if err != nil {
		writeError(c, err)
		return
	}
	b := v.([]byte)
	c.Data(http.StatusOK, "application/json", b)
	go cache.SetRawTaskCommentsAsync(token, b)
}

// CreateComment persists a comment and broadcasts it to every viewer of the
// task. The requester gets the full payload in this response; everyone else
// gets it through their live subscription.
func (h *Controller) CreateComment(c *gin.Context) {
	ctx := c.Request.Context()
	uid, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	token := c.Param("token")
	payload, err := h.comments.Create(ctx, token, uid, body.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	cache.InvalidateTaskComments(ctx, token)
	logger.Info(ctx, "Comment added", "task", token, "comment", payload.Token)
	c.JSON(http.StatusCreated, payload)
}

// DeleteComment destroys one comment, scoped to its owning task, and
// broadcasts the deletion.
func (h *Controller) DeleteComment(c *gin.Context) {
	ctx := c.Request.Context()
	token := c.Param("token")
	commentToken := c.Param("comment_token")
	if err := h.comments.Delete(ctx, token, commentToken); err != nil {
		writeError(c, err)
		return
	}
	cache.InvalidateTaskComments(ctx, token)
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
