package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

type inMemoryTask struct {
	queue   string
	payload []byte
}

func (t *inMemoryTask) Type() string {
	return t.queue
}

func (t *inMemoryTask) Payload() []byte {
	return t.payload
}

func (t *inMemoryTask) Ack() error {
	return nil
}

func (t *inMemoryTask) Nack() error {
	return nil
}

func (t *inMemoryTask) Reject() error {
	return nil
}

type InMemoryQueue struct {
	mu    sync.Mutex
	tasks chan Task
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		tasks: make(chan Task, 100),
	}
}

// publishTaskInternal never blocks the caller: when the buffer is full or
// the queue is closed the task is dropped and logged.
func (q *InMemoryQueue) publishTaskInternal(queue string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.tasks == nil {
		slog.Warn("in-memory queue closed, dropping task", "queue", queue)
		return nil
	}

	select {
	case q.tasks <- &inMemoryTask{queue: queue, payload: data}:
	default:
		slog.Warn("in-memory queue full, dropping task", "queue", queue)
	}

	return nil
}

func (q *InMemoryQueue) PublishAnalyticsEvent(ctx context.Context, payload AnalyticsEventPayload) error {
	return q.publishTaskInternal(AnalyticsQueue, payload)
}

func (q *InMemoryQueue) Tasks() <-chan Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tasks
}

func (q *InMemoryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.tasks != nil {
		close(q.tasks)
		q.tasks = nil
	}
}
