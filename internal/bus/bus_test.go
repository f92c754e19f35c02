package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, sub *Subscription, n int) []interface{} {
	t.Helper()
	out := make([]interface{}, 0, n)
	for i := 0; i < n; i++ {
		select {
		case ev, ok := <-sub.Events():
			require.True(t, ok, "subscription closed early")
			out = append(out, ev)
		default:
			t.Fatalf("expected %d buffered events, got %d", n, i)
		}
	}
	return out
}

func TestPublishReachesAllSubscribersInOrder(t *testing.T) {
	b := New(8)
	subA := b.Subscribe("task_comments_t1")
	subB := b.Subscribe("task_comments_t1")

	b.Publish("task_comments_t1", "one")
	b.Publish("task_comments_t1", "two")
	b.Publish("task_comments_t1", "three")

	assert.Equal(t, []interface{}{"one", "two", "three"}, drain(t, subA, 3))
	assert.Equal(t, []interface{}{"one", "two", "three"}, drain(t, subB, 3))
}

func TestLateSubscriberGetsNothingRetroactively(t *testing.T) {
	b := New(8)
	b.Publish("task_comments_t1", "early")

	sub := b.Subscribe("task_comments_t1")
	select {
	case ev := <-sub.Events():
		t.Fatalf("late subscriber received %v", ev)
	default:
	}
}

func TestTopicsAreIsolated(t *testing.T) {
	b := New(8)
	subOther := b.Subscribe("task_comments_other")
	b.Publish("task_comments_t1", "for t1")

	select {
	case ev := <-subOther.Events():
		t.Fatalf("subscriber on another topic received %v", ev)
	default:
	}
}

func TestUnsubscribeTwiceIsSafe(t *testing.T) {
	b := New(8)
	subA := b.Subscribe("task_comments_t1")
	subB := b.Subscribe("task_comments_t1")

	subA.Close()
	subA.Close() // duplicate disconnect signal

	b.Publish("task_comments_t1", "still delivered")
	assert.Equal(t, []interface{}{"still delivered"}, drain(t, subB, 1))
	assert.Equal(t, 1, b.SubscriberCount("task_comments_t1"))

	_, ok := <-subA.Events()
	assert.False(t, ok, "closed subscription's channel should be closed")
}

func TestSlowSubscriberMissesEvents(t *testing.T) {
	b := New(1)
	sub := b.Subscribe("task_comments_t1")

	b.Publish("task_comments_t1", "first")
	b.Publish("task_comments_t1", "dropped")
	b.Publish("task_comments_t1", "dropped too")

	assert.Equal(t, []interface{}{"first"}, drain(t, sub, 1))
	select {
	case ev := <-sub.Events():
		t.Fatalf("buffer overflow should drop, got %v", ev)
	default:
	}
}

func TestSubscriberCount(t *testing.T) {
	b := New(8)
	assert.Equal(t, 0, b.SubscriberCount("task_comments_t1"))
	sub := b.Subscribe("task_comments_t1")
	assert.Equal(t, 1, b.SubscriberCount("task_comments_t1"))
	sub.Close()
	assert.Equal(t, 0, b.SubscriberCount("task_comments_t1"))
}
