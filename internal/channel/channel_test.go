package channel

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/bus"
	"taskboard/internal/models"
	"taskboard/internal/reconciler"
	"taskboard/internal/service"
)

// memStore backs the write path and the channel's task lookup in-memory.
type memStore struct {
	mu       sync.Mutex
	tasks    map[string]*models.Task
	comments map[int64]*models.Comment
	users    map[int64]*models.User
	nextID   int64
}

func newMemStore() *memStore {
	s := &memStore{
		tasks:    make(map[string]*models.Task),
		comments: make(map[int64]*models.Comment),
		users:    make(map[int64]*models.User),
	}
	s.tasks["t1"] = &models.Task{ID: 1, Token: "t1", Name: "Task one"}
	s.users[7] = &models.User{ID: 7, Token: "u7", Name: "Ada"}
	s.nextID = 10
	return s
}

func (s *memStore) FindTaskByToken(_ context.Context, token string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[token]; ok {
		return t, nil
	}
	return nil, service.ErrTaskNotFound
}

func (s *memStore) FindCommentByToken(_ context.Context, taskID int64, token string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.comments {
		if c.Token == token && c.TaskID == taskID {
			return c, nil
		}
	}
	return nil, service.ErrCommentNotFound
}

func (s *memStore) ListComments(_ context.Context, taskID int64) ([]models.Comment, error) {
	return nil, nil
}

func (s *memStore) CreateComment(_ context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.ID = s.nextID
	if c.Token == "" {
		c.Token = fmt.Sprintf("comment-%d", s.nextID)
	}
	s.comments[c.ID] = c
	return nil
}

func (s *memStore) DeleteComment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.comments, id)
	return nil
}

func (s *memStore) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, service.ErrUserNotFound
}

func setup(t *testing.T) (*bus.Bus, *service.CommentService, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := bus.New(16)
	store := newMemStore()
	svc := service.NewCommentService(store, b, nil)
	mgr := NewManager(b, store)

	router := gin.New()
	router.GET("/ws/tasks/:token", mgr.Subscribe)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return b, svc, srv
}

func dial(t *testing.T, srv *httptest.Server, taskToken string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/tasks/" + taskToken
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) models.CommentEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var ev models.CommentEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func waitForSubscribers(t *testing.T, b *bus.Bus, topic string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return b.SubscriberCount(topic) == n
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTwoViewersStayInSync(t *testing.T) {
	b, svc, srv := setup(t)
	topic := models.TaskCommentsTopic("t1")

	connA := dial(t, srv, "t1")
	connB := dial(t, srv, "t1")
	waitForSubscribers(t, b, topic, 2)

	viewA := reconciler.NewCommentList()
	viewB := reconciler.NewCommentList()

	// Client A creates a comment through the write path.
	payload, err := svc.Create(context.Background(), "t1", 7, "Looks good")
	require.NoError(t, err)

	// A applies its own synchronous response, then its broadcast echo: one node.
	viewA.Apply(models.CommentEvent{Action: models.ActionCommentCreated, Comment: payload})
	viewA.Apply(readEvent(t, connA))
	assert.Equal(t, 1, viewA.Count())

	// B receives the broadcast only.
	evB := readEvent(t, connB)
	require.Equal(t, models.ActionCommentCreated, evB.Action)
	require.NotNil(t, evB.Comment)
	assert.Equal(t, "Looks good", evB.Comment.Text)
	assert.Equal(t, "Ada", evB.Comment.UserName)
	viewB.Apply(evB)
	assert.Equal(t, 1, viewB.Count())
	require.Len(t, viewB.Nodes(), 1)

	// A deletes the comment; both views drop to zero.
	require.NoError(t, svc.Delete(context.Background(), "t1", payload.Token))
	viewA.Apply(models.CommentEvent{Action: models.ActionCommentDeleted, CommentToken: payload.Token})
	viewA.Apply(readEvent(t, connA))

	evB = readEvent(t, connB)
	require.Equal(t, models.ActionCommentDeleted, evB.Action)
	assert.Equal(t, payload.Token, evB.CommentToken)
	viewB.Apply(evB)

	assert.Equal(t, 0, viewA.Count())
	assert.Equal(t, 0, viewB.Count())
}

func TestSubscribeUnknownTaskRefused(t *testing.T) {
	_, _, srv := setup(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/tasks/unknown"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.Nil(t, conn)
	require.NotNil(t, resp)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestDisconnectReleasesSubscription(t *testing.T) {
	b, svc, srv := setup(t)
	topic := models.TaskCommentsTopic("t1")

	connA := dial(t, srv, "t1")
	connB := dial(t, srv, "t1")
	waitForSubscribers(t, b, topic, 2)

	// Dropping A must release exactly its subscription, even with duplicate
	// close signals, and must not disturb B.
	require.NoError(t, connA.Close())
	_ = connA.Close() // duplicate disconnect signal must be harmless
	waitForSubscribers(t, b, topic, 1)

	_, err := svc.Create(context.Background(), "t1", 7, "after A left")
	require.NoError(t, err)
	ev := readEvent(t, connB)
	require.NotNil(t, ev.Comment)
	assert.Equal(t, "after A left", ev.Comment.Text)
}

func TestEventsArriveInPublishOrder(t *testing.T) {
	b, svc, srv := setup(t)
	topic := models.TaskCommentsTopic("t1")

	conn := dial(t, srv, "t1")
	waitForSubscribers(t, b, topic, 1)

	texts := []string{"first", "second", "third"}
	for _, text := range texts {
		_, err := svc.Create(context.Background(), "t1", 7, text)
		require.NoError(t, err)
	}
	for _, want := range texts {
		ev := readEvent(t, conn)
		require.NotNil(t, ev.Comment)
		assert.Equal(t, want, ev.Comment.Text)
	}
}
