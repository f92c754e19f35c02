// Package channel binds one websocket client to one task's comment topic and
// forwards bus events to it until the connection drops.
package channel

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"taskboard/internal/bus"
	"taskboard/internal/models"
	"taskboard/pkg/logger"
)

// Connection states. A connection that never reaches stateSubscribed stays
// inert and is closed without touching the bus.
const (
	stateDisconnected int32 = iota
	stateSubscribing
	stateSubscribed
)

// TaskFinder verifies the subscription target exists before the bus is touched.
type TaskFinder interface {
	FindTaskByToken(ctx context.Context, token string) (*models.Task, error)
}

// Manager upgrades subscribe requests and runs the per-client pump.
type Manager struct {
	bus      *bus.Bus
	tasks    TaskFinder
	upgrader websocket.Upgrader
}

func NewManager(b *bus.Bus, tasks TaskFinder) *Manager {
	return &Manager{
		bus: b,
		tasks: tasks,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Subscribe is the websocket endpoint for GET /ws/tasks/:token. It validates
// the topic key, subscribes the bus, and forwards every event for that topic
// to this one client, serialized in bus order. Cleanup (unsubscribe + close)
// runs on every exit path, including abnormal termination, and is idempotent.
func (m *Manager) Subscribe(c *gin.Context) {
	ctx := c.Request.Context()
	token := c.Param("token")

	var state atomic.Int32
	state.Store(stateSubscribing)

	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing task token"})
		return
	}
	if _, err := m.tasks.FindTaskByToken(ctx, token); err != nil {
		// Subscription setup failure: refuse to transition to subscribed.
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	conn, err := m.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Debug(ctx, "Websocket upgrade failed", "error", err)
		return
	}

	topic := models.TaskCommentsTopic(token)
	sub := m.bus.Subscribe(topic)
	state.Store(stateSubscribed)
	logger.Info(ctx, "Subscribed to task comments", "task", token, "subscribers", m.bus.SubscriberCount(topic))

	defer func() {
		sub.Close()
		conn.Close()
		state.Store(stateDisconnected)
		logger.Info(ctx, "Unsubscribed from task comments", "task", token)
	}()

	// Read pump: the client sends nothing meaningful, but reading is required
	// to notice close frames and transport failures. Closing the subscription
	// ends the write pump below.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sub.Close()
				conn.Close()
				return
			}
		}
	}()

	// Write pump: one goroutine per subscriber, so per-topic delivery order is
	// exactly the bus's publish order.
	for ev := range sub.Events() {
		if err := conn.WriteJSON(ev); err != nil {
			logger.Debug(ctx, "Websocket write failed", "task", token, "error", err)
			return
		}
	}
}
