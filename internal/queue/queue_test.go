package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	msgs, err := q.Consume(ctx)
	require.NoError(t, err)

	require.NoError(t, q.Publish(ctx, Message{Type: "attendance", Body: []byte(`{"eventId":"e1"}`)}))

	select {
	case got := <-msgs:
		assert.Equal(t, "attendance", got.Type)
		assert.JSONEq(t, `{"eventId":"e1"}`, string(got.Body))
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestInMemoryConsumeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	q := NewInMemory(1)
	msgs, err := q.Consume(ctx)
	require.NoError(t, err)

	// Leave the message unread so the forwarder is parked on its send,
	// then cancel; the channel must still close.
	require.NoError(t, q.Publish(ctx, Message{Type: "attendance"}))
	time.Sleep(10 * time.Millisecond)
	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, open := <-msgs:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("consume channel never closed after cancel")
		}
	}
}

func TestInMemoryPublishHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := NewInMemory(0)
	err := q.Publish(ctx, Message{Type: "attendance"})
	assert.ErrorIs(t, err, context.Canceled)
}
