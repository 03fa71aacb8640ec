package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Worker drains the notification queue and delivers each message through the
// mailer. A failed delivery is logged and dropped; there is no retry queue.
type Worker struct {
	rdb    *redis.Client
	key    string
	mailer Mailer
	log    *logrus.Logger
}

// NewWorker constructs a Worker reading from the given list key.
func NewWorker(rdb *redis.Client, key string, mailer Mailer, log *logrus.Logger) *Worker {
	return &Worker{rdb: rdb, key: key, mailer: mailer, log: log}
}

// Run blocks until ctx is cancelled, popping and delivering notifications.
func (w *Worker) Run(ctx context.Context) {
	for {
		res, err := w.rdb.BRPop(ctx, time.Second, w.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // queue empty, poll again
			}
			if ctx.Err() != nil {
				return
			}
			w.log.WithError(err).Warn("notification queue read failed")
			time.Sleep(time.Second)
			continue
		}
		// BRPop returns [key, value].
		if len(res) != 2 {
			continue
		}
		w.deliver(ctx, []byte(res[1]))
	}
}

func (w *Worker) deliver(ctx context.Context, payload []byte) {
	var n Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		w.log.WithError(err).Warn("discarding malformed notification")
		return
	}
	if err := w.mailer.Send(ctx, n); err != nil {
		w.log.WithError(err).WithFields(logrus.Fields{
			"kind":    n.Kind,
			"account": n.AccountID,
		}).Warn("notification delivery failed")
	}
}

// LogMailer writes notifications to the application log instead of sending
// real email. It stands in for an SMTP mailer in local development.
type LogMailer struct {
	log *logrus.Logger
}

// NewLogMailer constructs a LogMailer.
func NewLogMailer(log *logrus.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send logs the notification.
func (m *LogMailer) Send(_ context.Context, n Notification) error {
	m.log.WithFields(logrus.Fields{
		"kind":    n.Kind,
		"account": n.AccountID,
		"event":   n.EventID,
	}).Info(n.Subject())
	return nil
}
