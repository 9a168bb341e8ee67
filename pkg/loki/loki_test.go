package loki

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type MockLogger struct {
	mu     sync.Mutex
	errors []string
}

func (m *MockLogger) Error(msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

func Test_ConfigValidation(t *testing.T) {
	cfg := Config{}
	_, err := New(context.Background(), cfg, &MockLogger{})
	assert.Error(t, err)

	cfg.Url = "http://localhost:3100/loki/api/v1/push"
	pusher, err := New(context.Background(), cfg, &MockLogger{})
	require.NoError(t, err)
	defer pusher.Stop()

	assert.Equal(t, cfg.Url, pusher.config.Url)
	assert.Equal(t, 1000, pusher.config.BatchMaxSize)
	assert.Equal(t, 5*time.Second, pusher.config.BatchMaxWait)
	assert.Equal(t, map[string]string{}, pusher.config.Labels)
}

func Test_Pusher_WhenStopped_ShouldFlushBatchAsGzippedStream(t *testing.T) {
	var (
		mu       sync.Mutex
		received pushRequest
		user     string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		user, _, _ = r.BasicAuth()
		assert.Equal(t, "gzip", r.Header.Get("Content-Encoding"))
		gz, err := gzip.NewReader(r.Body)
		if assert.NoError(t, err) {
			assert.NoError(t, json.NewDecoder(gz).Decode(&received))
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	logger := &MockLogger{}
	pusher, err := New(context.Background(), Config{
		Url:          server.URL,
		BatchMaxWait: time.Hour,
		Labels:       map[string]string{"app": "job-monitor"},
		Username:     "grafana",
		Password:     "secret",
	}, logger)
	require.NoError(t, err)

	require.NoError(t, pusher.Push(LogEntry{Level: "error", Message: "source failed", Source: "capa"}))
	require.NoError(t, pusher.Push(LogEntry{Level: "info", Message: "pipeline finished"}))
	pusher.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received.Streams, 1)
	assert.Equal(t, "job-monitor", received.Streams[0].Stream["app"])
	require.Len(t, received.Streams[0].Values, 2)

	var first LogEntry
	require.NoError(t, json.Unmarshal([]byte(received.Streams[0].Values[0][1]), &first))
	assert.Equal(t, "source failed", first.Message)
	assert.Equal(t, "capa", first.Source)
	assert.Equal(t, "grafana", user)
	assert.Empty(t, logger.errors)
}

func Test_Pusher_WhenStopped_ShouldRejectPush(t *testing.T) {
	pusher, err := New(context.Background(), Config{Url: "http://localhost:3100/loki/api/v1/push"}, &MockLogger{})
	require.NoError(t, err)

	pusher.Stop()
	pusher.Stop()

	assert.ErrorIs(t, pusher.Push(LogEntry{Message: "late"}), ErrStopped)
}
