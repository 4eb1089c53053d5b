package loki

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/kcdcommunity/kcdbot/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type capture struct {
	mu       sync.Mutex
	requests []pushRequest
	users    []string
}

func (c *capture) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/loki/api/v1/push", r.URL.Path)
		assert.Equal(t, "gzip", r.Header.Get("Content-Encoding"))

		gz, err := gzip.NewReader(r.Body)
		require.NoError(t, err)
		raw, err := io.ReadAll(gz)
		require.NoError(t, err)

		var req pushRequest
		require.NoError(t, sonic.Unmarshal(raw, &req))

		user, _, _ := r.BasicAuth()

		c.mu.Lock()
		c.requests = append(c.requests, req)
		c.users = append(c.users, user)
		c.mu.Unlock()

		w.WriteHeader(http.StatusNoContent)
	}
}

func (c *capture) snapshot() ([]pushRequest, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]pushRequest(nil), c.requests...), append([]string(nil), c.users...)
}

func TestCoreShipsStreamsPerLevel(t *testing.T) {
	var c capture
	server := httptest.NewServer(c.handler(t))
	defer server.Close()

	pusher := NewPusher(context.Background(), config.Loki{
		URL:            server.URL,
		Username:       "bot",
		Password:       "secret",
		BatchMaxSize:   100,
		BatchMaxWaitMS: 60000,
		Labels:         map[string]string{"app": "kcdbot"},
	})

	logger := zap.New(NewCore(zapcore.InfoLevel, pusher)).Named("welcome").With(zap.String("instance_id", "abc"))
	logger.Debug("filtered out")
	logger.Info("member joined", zap.Uint64("member_id", 7))
	logger.Error("thread failed")

	pusher.Stop()

	requests, users := c.snapshot()
	require.Len(t, requests, 1)
	assert.Equal(t, []string{"bot"}, users)

	streams := requests[0].Streams
	require.Len(t, streams, 2)
	assert.Equal(t, map[string]string{"app": "kcdbot", "level": "error"}, streams[0].Stream)
	assert.Equal(t, map[string]string{"app": "kcdbot", "level": "info"}, streams[1].Stream)

	require.Len(t, streams[1].Values, 1)
	var line logLine
	require.NoError(t, sonic.UnmarshalString(streams[1].Values[0][1], &line))
	assert.Equal(t, "member joined", line.Message)
	assert.Equal(t, "welcome", line.Logger)
	assert.Equal(t, "abc", line.Fields["instance_id"])
	assert.EqualValues(t, 7, line.Fields["member_id"])
}

func TestPusherFlushesFullBatch(t *testing.T) {
	var c capture
	server := httptest.NewServer(c.handler(t))
	defer server.Close()

	pusher := NewPusher(context.Background(), config.Loki{
		URL:            server.URL,
		BatchMaxSize:   2,
		BatchMaxWaitMS: 60000,
	})
	defer pusher.Stop()

	now := time.Now().UnixNano()
	pusher.AddEntry(logEntry{level: "info", timestamp: now, line: "{}"})
	pusher.AddEntry(logEntry{level: "info", timestamp: now + 1, line: "{}"})

	assert.Eventually(t, func() bool {
		requests, users := c.snapshot()
		return len(requests) == 1 && users[0] == ""
	}, time.Second, 10*time.Millisecond)
}

func TestSendRejectsUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	pusher := NewPusher(context.Background(), config.Loki{URL: server.URL, BatchMaxSize: 1, BatchMaxWaitMS: 60000})
	defer pusher.Stop()

	err := pusher.send(context.Background(), []logEntry{{level: "warn", line: "{}"}})
	require.ErrorIs(t, err, ErrUnexpectedStatusCode)
}
