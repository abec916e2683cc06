package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueueRoundTrip(t *testing.T) {
	queue := NewInMemoryQueue()
	tasks := queue.Tasks()

	sessionID := uuid.New()
	payload := AnalyticsEventPayload{
		EventType:  "query",
		SessionID:  sessionID,
		Details:    map[string]any{"message_length": 12},
		OccurredAt: time.Now().UTC(),
	}
	require.NoError(t, queue.PublishAnalyticsEvent(context.Background(), payload))

	select {
	case task := <-tasks:
		assert.Equal(t, AnalyticsQueue, task.Type())

		var decoded AnalyticsEventPayload
		require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
		assert.Equal(t, "query", decoded.EventType)
		assert.Equal(t, sessionID, decoded.SessionID)

		assert.NoError(t, task.Ack())
	case <-time.After(time.Second):
		t.Fatal("no task delivered")
	}
}

func TestInMemoryQueuePreservesOrder(t *testing.T) {
	queue := NewInMemoryQueue()
	tasks := queue.Tasks()

	for _, eventType := range []string{"first", "second", "third"} {
		require.NoError(t, queue.PublishAnalyticsEvent(context.Background(), AnalyticsEventPayload{EventType: eventType}))
	}
	queue.Close()

	var got []string
	for task := range tasks {
		var decoded AnalyticsEventPayload
		require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
		got = append(got, decoded.EventType)
	}
	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestInMemoryQueueCloseIsIdempotent(t *testing.T) {
	queue := NewInMemoryQueue()
	queue.Close()
	queue.Close()
}

func TestInMemoryQueueDropsWhenFull(t *testing.T) {
	queue := NewInMemoryQueue()
	tasks := queue.Tasks()

	// No consumer: fill the buffer and then some. Publishing must never
	// block or error.
	for i := 0; i < 150; i++ {
		require.NoError(t, queue.PublishAnalyticsEvent(context.Background(), AnalyticsEventPayload{EventType: "query"}))
	}

	delivered := 0
	queue.Close()
	for range tasks {
		delivered++
	}
	assert.Equal(t, 100, delivered, "overflow is dropped, not queued")
}

func TestInMemoryQueuePublishAfterClose(t *testing.T) {
	queue := NewInMemoryQueue()
	queue.Close()

	assert.NoError(t, queue.PublishAnalyticsEvent(context.Background(), AnalyticsEventPayload{EventType: "query"}))
}
