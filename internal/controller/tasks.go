package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/cache"
	"taskboard/internal/service"
	"taskboard/pkg/logger"
)

type taskBody struct {
	Name              string `json:"name" binding:"required"`
	Status            string `json:"status"`
	DueDate           string `json:"due_date" binding:"required"` // 2006-01-02
	Description       string `json:"description"`
	AssignedToID      int64  `json:"assigned_to_id"`
	EstimatedDuration string `json:"estimated_duration"`
}

func (b *taskBody) toInput(createdBy int64) (service.TaskInput, error) {
	due, err := time.Parse("2006-01-02", b.DueDate)
	if err != nil {
		return service.TaskInput{}, err
	}
	return service.TaskInput{
		Name:              b.Name,
		Status:            b.Status,
		DueDate:           due,
		Description:       b.Description,
		AssignedToID:      b.AssignedToID,
		CreatedByID:       createdBy,
		EstimatedDuration: b.EstimatedDuration,
	}, nil
}

// GetTasks returns all tasks as JSON, cache-first as raw bytes.
func (h *Controller) GetTasks(c *gin.Context) {
	ctx := c.Request.Context()
	if b, ok := cache.GetRawTasks(ctx); ok {
		c.Data(http.StatusOK, "application/json", b)
		return
	}
	v, err, _ := h.group.Do("tasks", func() (interface{}, error) {
		tasks, err := h.tasks.List(context.Background())
		if err != nil {
			return nil, err
		}
		return json.Marshal(tasks)
	})
	if err != nil {
		logger.Error(ctx, "GetTasks failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get tasks"})
		return
	}
	b := v.([]byte)
	c.Data(http.StatusOK, "application/json", b)
	go cache.SetRawTasksAsync(b)
}

// GetTask returns one task by token.
func (h *Controller) GetTask(c *gin.Context) {
	task, err := h.tasks.Get(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask validates and persists a new task.
func (h *Controller) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()
	uid, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	var body taskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	in, err := body.toInput(uid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
		return
	}
	task, err := h.tasks.Create(ctx, in)
	if err != nil {
		writeError(c, err)
		return
	}
	cache.InvalidateTasks(ctx)
	c.JSON(http.StatusCreated, task)
}

// UpdateTask applies owner edits, or a status-only toggle when only "status"
// is sent.
func (h *Controller) UpdateTask(c *gin.Context) {
	ctx := c.Request.Context()
	token := c.Param("token")
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if len(raw) == 1 {
		if statusRaw, ok := raw["status"]; ok {
			var status string
			if err := json.Unmarshal(statusRaw, &status); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
				return
			}
			task, err := h.tasks.SetStatus(ctx, token, status)
			if err != nil {
				writeError(c, err)
				return
			}
			cache.InvalidateTasks(ctx)
			c.JSON(http.StatusOK, task)
			return
		}
	}
	full, _ := json.Marshal(raw)
	var body taskBody
	if err := json.Unmarshal(full, &body); err != nil || body.Name == "" || body.DueDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	in, err := body.toInput(0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
		return
	}
	task, err := h.tasks.Update(ctx, token, in)
	if err != nil {
		writeError(c, err)
		return
	}
	cache.InvalidateTasks(ctx)
	c.JSON(http.StatusOK, task)
}

// DeleteTask destroys a task and its comment thread.
func (h *Controller) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()
	token := c.Param("token")
	if err := h.tasks.Delete(ctx, token); err != nil {
		writeError(c, err)
		return
	}
	cache.InvalidateTasks(ctx)
	cache.InvalidateTaskComments(ctx, token)
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// AddFollower adds a user to the task's follower set.
func (h *Controller) AddFollower(c *gin.Context) {
	ctx := c.Request.Context()
	var body struct {
		UserID int64 `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	task, err := h.tasks.AddFollower(ctx, c.Param("token"), body.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	cache.InvalidateTasks(ctx)
	c.JSON(http.StatusOK, task)
}

// RemoveFollower removes a user from the task's follower set.
func (h *Controller) RemoveFollower(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	task, err := h.tasks.RemoveFollower(ctx, c.Param("token"), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	cache.InvalidateTasks(ctx)
	c.JSON(http.StatusOK, task)
}
