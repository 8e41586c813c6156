package salesnotif

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/slack-go/slack"
)

var (
	instance *SalesNotifier
	once     sync.Once
)

// SalesNotifier posts growth events (new workspaces, new wikis) to a Slack
// incoming webhook. Delivery is best effort and never blocks the caller.
type SalesNotifier struct {
	webhookURL  string
	environment string
	appName     string
	post        func(ctx context.Context, url string, msg *slack.WebhookMessage) error
	wg          sync.WaitGroup
}

// Init initializes the global sales notifier instance
func Init(webhookURL, environment string) {
	once.Do(func() {
		instance = newSalesNotifier(webhookURL, environment, slack.PostWebhookContext)
	})
}

func newSalesNotifier(
	webhookURL, environment string,
	post func(ctx context.Context, url string, msg *slack.WebhookMessage) error,
) *SalesNotifier {
	return &SalesNotifier{
		webhookURL:  webhookURL,
		environment: environment,
		appName:     "Slack Proxy",
		post:        post,
	}
}

// New sends a notification about activity in the given Slack team
func New(teamID, message string) {
	if instance == nil {
		log.Printf("⚠️ Sales notifier not initialized, skipping notification: %s", message)
		return
	}

	instance.send(teamID, message)
}

// Wait blocks until notifications sent through New have been delivered.
func Wait() {
	if instance == nil {
		return
	}
	instance.Wait()
}

func (s *SalesNotifier) send(teamID, message string) {
	if s.webhookURL == "" {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.deliver(teamID, message)
	}()
}

func (s *SalesNotifier) deliver(teamID, message string) {
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Service:* %s", s.appName), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Environment:* %s", s.environment), false, false),
		slack.NewTextBlockObject(
			slack.MarkdownType,
			fmt.Sprintf("*Timestamp:* %s", time.Now().UTC().Format("2006-01-02 15:04:05 UTC")),
			false,
			false,
		),
	}
	if teamID != "" {
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Team:* `%s`", teamID), false, false))
	}

	activity := slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("📊 *Activity:*\n%s", message), false, false)
	msg := &slack.WebhookMessage{
		Text: message,
		Blocks: &slack.Blocks{BlockSet: []slack.Block{
			slack.NewSectionBlock(nil, fields, nil),
			slack.NewSectionBlock(activity, nil, nil),
		}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.post(ctx, s.webhookURL, msg); err != nil {
		log.Printf("❌ Failed to send sales notification: %v", err)
		return
	}

	log.Printf("💰 Sales notification sent: %s", message)
}

// Wait blocks until notifications already sent have been delivered.
func (s *SalesNotifier) Wait() {
	s.wg.Wait()
}
