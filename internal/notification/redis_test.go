package notification

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub/internal/model"
)

const testQueue = "test:notifications"

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

// recordMailer collects deliveries for assertions.
type recordMailer struct {
	mu   sync.Mutex
	sent []Notification
}

func (m *recordMailer) Send(_ context.Context, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
	return nil
}

func (m *recordMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestRedisSinkEnqueues(t *testing.T) {
	rdb := testRedis(t)
	sink := NewRedisSink(rdb, testQueue)
	ctx := context.Background()

	ev := &model.Event{ID: "evt-1", Title: "weekly session"}
	require.NoError(t, sink.Notify(ctx, New(EnrollmentAccepted, "alice", ev)))
	require.NoError(t, sink.Notify(ctx, New(EnrollmentPending, "bob", ev)))

	vals, err := rdb.LRange(ctx, testQueue, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, vals, 2)

	// BRPop consumes from the tail, so the oldest message sits last.
	var n Notification
	require.NoError(t, json.Unmarshal([]byte(vals[1]), &n))
	assert.Equal(t, EnrollmentAccepted, n.Kind)
	assert.Equal(t, "alice", n.AccountID)
	assert.Equal(t, "evt-1", n.EventID)
	assert.Equal(t, "weekly session", n.EventTitle)
}

func TestWorkerDeliversQueue(t *testing.T) {
	rdb := testRedis(t)
	sink := NewRedisSink(rdb, testQueue)
	mailer := &recordMailer{}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ev := &model.Event{ID: "evt-1", Title: "weekly session"}
	require.NoError(t, sink.Notify(ctx, New(EnrollmentAccepted, "alice", ev)))
	require.NoError(t, sink.Notify(ctx, New(Disenrolled, "bob", ev)))

	worker := NewWorker(rdb, testQueue, mailer, log)
	go worker.Run(ctx)

	require.Eventually(t, func() bool { return mailer.count() == 2 },
		3*time.Second, 10*time.Millisecond)

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	assert.Equal(t, EnrollmentAccepted, mailer.sent[0].Kind)
	assert.Equal(t, Disenrolled, mailer.sent[1].Kind)
}

func TestWorkerDiscardsMalformedPayload(t *testing.T) {
	rdb := testRedis(t)
	mailer := &recordMailer{}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	worker := NewWorker(rdb, testQueue, mailer, log)

	worker.deliver(context.Background(), []byte("not json"))
	assert.Zero(t, mailer.count())
}

func TestSubject(t *testing.T) {
	ev := &model.Event{ID: "evt-1", Title: "book club"}
	assert.Contains(t, New(EnrollmentAccepted, "a", ev).Subject(), "accepted")
	assert.Contains(t, New(EnrollmentPending, "a", ev).Subject(), "waiting")
	assert.Contains(t, New(EnrollmentRejected, "a", ev).Subject(), "rejected")
	assert.Contains(t, New(Disenrolled, "a", ev).Subject(), "left")
}
