package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"taskboard/internal/service"
)

// Controller holds the gin handlers and their injected services.
type Controller struct {
	tasks    *service.TaskService
	comments *service.CommentService
	users    *service.UserService
	group    singleflight.Group
}

func New(tasks *service.TaskService, comments *service.CommentService, users *service.UserService) *Controller {
	return &Controller{tasks: tasks, comments: comments, users: users}
}

// writeError maps service errors onto HTTP responses: validation failures get
// 422 with field errors for re-rendering, unknown tokens 404.
func writeError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{vErr.Field: vErr.Message}})
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// currentUser reads the identity resolved by the middleware.
func currentUser(c *gin.Context) (int64, bool) {
	v, ok := c.Get("user")
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
