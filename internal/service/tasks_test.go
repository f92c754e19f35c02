package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/models"
)

// fakeTaskStore covers the TaskStore surface for validation tests.
type fakeTaskStore struct {
	fakeStore
	updated *models.Task
}

func (f *fakeTaskStore) ListTasks(context.Context) ([]models.Task, error) { return nil, nil }

func (f *fakeTaskStore) CreateTask(_ context.Context, t *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t.ID = f.nextID
	t.Token = "generated"
	f.tasks[t.Token] = t
	return nil
}

func (f *fakeTaskStore) UpdateTask(_ context.Context, t *models.Task) error {
	f.updated = t
	return nil
}

func (f *fakeTaskStore) DeleteTask(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[token]; !ok {
		return ErrTaskNotFound
	}
	delete(f.tasks, token)
	return nil
}

func (f *fakeTaskStore) AddFollower(_ context.Context, token string, userID int64) (*models.Task, error) {
	t, err := f.FindTaskByToken(context.Background(), token)
	if err != nil {
		return nil, err
	}
	t.Followers = append(t.Followers, userID)
	return t, nil
}

func (f *fakeTaskStore) RemoveFollower(_ context.Context, token string, _ int64) (*models.Task, error) {
	return f.FindTaskByToken(context.Background(), token)
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{fakeStore: fakeStore{
		tasks:    make(map[string]*models.Task),
		comments: make(map[int64]*models.Comment),
		users:    make(map[int64]*models.User),
	}}
}

func validInput() TaskInput {
	return TaskInput{
		Name:         "Write report",
		DueDate:      time.Now().AddDate(0, 0, 7),
		AssignedToID: 1,
		CreatedByID:  2,
	}
}

func TestCreateTaskDefaultsToPending(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore())

	task, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.NotEmpty(t, task.Token)
}

func TestCreateTaskRejectsBlankName(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore())
	in := validInput()
	in.Name = "  "

	_, err := svc.Create(context.Background(), in)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)
}

func TestCreateTaskRejectsUnknownStatus(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore())
	in := validInput()
	in.Status = "archived"

	_, err := svc.Create(context.Background(), in)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "status", vErr.Field)
}

func TestCreateTaskRejectsPastDueDate(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore())
	in := validInput()
	in.DueDate = time.Now().AddDate(0, 0, -3)

	_, err := svc.Create(context.Background(), in)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "due_date", vErr.Field)
}

func TestCreateTaskAllowsPastDueDateWhenCompleted(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore())
	in := validInput()
	in.DueDate = time.Now().AddDate(0, 0, -3)
	in.Status = models.StatusCompleted

	task, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, task.Status)
}

func TestSetStatusTogglesTask(t *testing.T) {
	store := newFakeTaskStore()
	store.addTask("t1")
	svc := NewTaskService(store)

	task, err := svc.SetStatus(context.Background(), "t1", models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, task.Status)

	_, err = svc.SetStatus(context.Background(), "t1", "bogus")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestUpdateTaskAllowsPastDueDate(t *testing.T) {
	// Past due dates are only rejected at creation.
	store := newFakeTaskStore()
	store.addTask("t1")
	svc := NewTaskService(store)

	in := validInput()
	in.DueDate = time.Now().AddDate(0, 0, -10)
	task, err := svc.Update(context.Background(), "t1", in)
	require.NoError(t, err)
	assert.Equal(t, in.DueDate, task.DueDate)
}

func TestDeleteTaskUnknownToken(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore())
	assert.ErrorIs(t, svc.Delete(context.Background(), "missing"), ErrTaskNotFound)
}
