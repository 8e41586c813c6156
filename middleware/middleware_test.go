package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedAlerts struct {
	mu       sync.Mutex
	messages []*slack.WebhookMessage
	sent     chan struct{}
}

func newTestAlertMiddleware(webhookURL string) (*ErrorAlertMiddleware, *recordedAlerts) {
	recorded := &recordedAlerts{sent: make(chan struct{}, 10)}
	m := NewErrorAlertMiddleware(SlackAlertConfig{
		WebhookURL:  webhookURL,
		Environment: "dev",
		AppName:     "slackproxy",
		LogsURL:     "https://logs.example.com",
	})
	m.post = func(ctx context.Context, url string, msg *slack.WebhookMessage) error {
		recorded.mu.Lock()
		recorded.messages = append(recorded.messages, msg)
		recorded.mu.Unlock()
		recorded.sent <- struct{}{}
		return nil
	}
	return m, recorded
}

func waitForAlert(t *testing.T, recorded *recordedAlerts) {
	t.Helper()
	select {
	case <-recorded.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("alert was not sent")
	}
}

func TestErrorAlertMiddleware_HTTPMiddlewareRecoversPanic(t *testing.T) {
	m, recorded := newTestAlertMiddleware("https://hooks.slack.com/services/T/B/X")
	handler := m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/slack/commands", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	waitForAlert(t, recorded)
	recorded.mu.Lock()
	defer recorded.mu.Unlock()
	assert.Contains(t, recorded.messages[0].Text, "HTTP POST /slack/commands: PANIC - boom")
}

func TestErrorAlertMiddleware_WrapBackgroundTask(t *testing.T) {
	t.Run("alerts once per error within cooldown", func(t *testing.T) {
		m, recorded := newTestAlertMiddleware("https://hooks.slack.com/services/T/B/X")
		task := m.WrapBackgroundTask("deferred reply", func() error {
			return errors.New("wiki unreachable")
		})

		require.Error(t, task())
		require.Error(t, task())

		waitForAlert(t, recorded)
		select {
		case <-recorded.sent:
			t.Fatal("duplicate alert was sent")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("recovers panics", func(t *testing.T) {
		m, recorded := newTestAlertMiddleware("https://hooks.slack.com/services/T/B/X")
		task := m.WrapBackgroundTask("deferred reply", func() error {
			panic("invariant violated")
		})

		err := task()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invariant violated")
		waitForAlert(t, recorded)
	})

	t.Run("success sends nothing", func(t *testing.T) {
		m, recorded := newTestAlertMiddleware("https://hooks.slack.com/services/T/B/X")

		require.NoError(t, m.WrapBackgroundTask("ok", func() error { return nil })())
		assert.Empty(t, recorded.messages)
	})
}

func TestErrorAlertMiddleware_DisabledWithoutWebhook(t *testing.T) {
	m, recorded := newTestAlertMiddleware("")

	m.sendSlackAlert("error", "context")

	assert.Empty(t, recorded.messages)
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	handler := chimiddleware.RequestID(AccessLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/health", line["path"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.NotEmpty(t, line["request_id"])
	assert.Equal(t, "request completed", line["message"])
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/slack/commands", normalizePath("/slack/commands"))
	assert.Equal(t, "/g2s/relation-test", normalizePath("/g2s/relation-test"))
	assert.Equal(t, "other", normalizePath("/slack/commands/extra"))
	assert.Equal(t, "other", normalizePath("/wp-admin"))
}

func TestMetricsCapturesStatus(t *testing.T) {
	handler := Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/g2s/relation-test", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
