package database

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolRejectsBadDSN(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	_, err := NewPool(context.Background(), "not a dsn", log)
	require.Error(t, err)
	assert.ErrorContains(t, err, "parse db config")
}

func TestNewPoolSurfacesPingFailure(t *testing.T) {
	old := connectRetryDelay
	connectRetryDelay = time.Millisecond
	defer func() { connectRetryDelay = old }()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	// Port 1 refuses immediately; the pool is created lazily, so the
	// failure surfaces on Ping and must survive into the returned error.
	dsn := "postgres://u:p@127.0.0.1:1/studyhub?sslmode=disable&connect_timeout=1"
	_, err := NewPool(context.Background(), dsn, log)
	require.Error(t, err)
	assert.ErrorContains(t, err, "connect to postgres")
	assert.NotContains(t, err.Error(), "%!w")
}
