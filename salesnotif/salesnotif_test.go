package salesnotif

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPoster struct {
	mu       sync.Mutex
	urls     []string
	messages []*slack.WebhookMessage
	err      error
}

func (r *recordingPoster) post(_ context.Context, url string, msg *slack.WebhookMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls = append(r.urls, url)
	r.messages = append(r.messages, msg)
	return r.err
}

func TestSalesNotifier_Send(t *testing.T) {
	poster := &recordingPoster{}
	notifier := newSalesNotifier("https://hooks.slack.com/services/T/B/X", "prod", poster.post)

	notifier.send("T123", "New workspace installed: Acme")
	notifier.Wait()

	require.Len(t, poster.messages, 1)
	assert.Equal(t, "https://hooks.slack.com/services/T/B/X", poster.urls[0])
	assert.Equal(t, "New workspace installed: Acme", poster.messages[0].Text)
	require.NotNil(t, poster.messages[0].Blocks)
	assert.Len(t, poster.messages[0].Blocks.BlockSet, 2)
}

func TestSalesNotifier_Disabled(t *testing.T) {
	poster := &recordingPoster{}
	notifier := newSalesNotifier("", "prod", poster.post)

	notifier.send("T123", "ignored")
	notifier.Wait()

	assert.Empty(t, poster.messages)
}

func TestSalesNotifier_PostFailureIsSwallowed(t *testing.T) {
	poster := &recordingPoster{err: errors.New("webhook down")}
	notifier := newSalesNotifier("https://hooks.slack.com/services/T/B/X", "prod", poster.post)

	assert.NotPanics(t, func() {
		notifier.send("", "New wiki registered")
		notifier.Wait()
	})
	assert.Len(t, poster.messages, 1)
}

func TestWait(t *testing.T) {
	previous := instance
	t.Cleanup(func() { instance = previous })

	instance = nil
	once = sync.Once{}
	assert.NotPanics(t, Wait)

	Init("", "test")
	require.NotNil(t, instance)
	assert.NotPanics(t, Wait)

	poster := &recordingPoster{}
	instance = newSalesNotifier("https://hooks.slack.com/services/T/B/X", "prod", poster.post)
	New("inst_1", "New wiki registered: https://wiki.example.com")
	Wait()

	require.Len(t, poster.messages, 1)
	fields := poster.messages[0].Blocks.BlockSet[0].(*slack.SectionBlock).Fields
	assert.Equal(t, "*Team:* `inst_1`", fields[len(fields)-1].Text)
}
