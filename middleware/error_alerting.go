package middleware

import (
	"context"
	"crypto/md5"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/slack-go/slack"
)

type SlackAlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
	LogsURL     string
}

type ErrorAlertMiddleware struct {
	config        SlackAlertConfig
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.Mutex
	alertCooldown time.Duration
	post          func(ctx context.Context, url string, msg *slack.WebhookMessage) error
}

func NewErrorAlertMiddleware(config SlackAlertConfig) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute, // same error alerts at most once per 10min
		post:          slack.PostWebhookContext,
	}
}

// HTTPMiddleware recovers panics in handlers, alerts and answers 500.
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				m.alertOnPanic(fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path), rec)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// WrapBackgroundTask runs task with panic recovery and alerts on failure.
func (m *ErrorAlertMiddleware) WrapBackgroundTask(taskName string, task func() error) func() error {
	return func() (err error) {
		alertContext := fmt.Sprintf("Background task: %s", taskName)
		defer func() {
			if rec := recover(); rec != nil {
				m.alertOnPanic(alertContext, rec)
				err = fmt.Errorf("panic in %s: %v", taskName, rec)
			}
		}()

		if err := task(); err != nil {
			log.Printf("❌ %s failed: %v", alertContext, err)
			m.alertOnError(err, alertContext)
			return err
		}
		return nil
	}
}

func (m *ErrorAlertMiddleware) alertOnError(err error, alertContext string) {
	errorMsg := fmt.Sprintf("%s: %v", alertContext, err)
	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if lastAlert, exists := m.alertedErrors[hash]; exists && time.Since(lastAlert) < m.alertCooldown {
		return
	}

	go m.sendSlackAlert(errorMsg, alertContext)
	m.alertedErrors[hash] = time.Now()
}

func (m *ErrorAlertMiddleware) alertOnPanic(alertContext string, rec any) {
	errorMsg := fmt.Sprintf("%s: PANIC - %v", alertContext, rec)
	log.Printf("❌ %s", errorMsg)
	go m.sendSlackAlert(errorMsg, alertContext+" (PANIC)")
}

func (m *ErrorAlertMiddleware) sendSlackAlert(errorMsg, alertContext string) {
	if m.config.WebhookURL == "" {
		return
	}

	envPrefix := ""
	if m.config.Environment == "dev" {
		envPrefix = "[dev] "
	}

	mrkdwn := func(text string) *slack.TextBlockObject {
		return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
	}
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(
			slack.PlainTextType,
			fmt.Sprintf("🚨 %s[%s] Error Alert", envPrefix, m.config.AppName),
			true,
			false,
		)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			mrkdwn(fmt.Sprintf("*Service:* %s", m.config.AppName)),
			mrkdwn(fmt.Sprintf("*Environment:* %s", m.config.Environment)),
			mrkdwn(fmt.Sprintf("*Context:* %s", alertContext)),
		}, nil),
		slack.NewSectionBlock(mrkdwn(fmt.Sprintf("*Error:*\n```%s```", errorMsg)), nil, nil),
	}
	if m.config.LogsURL != "" {
		blocks = append(blocks, slack.NewSectionBlock(mrkdwn(fmt.Sprintf("🔗 <%s|View Logs>", m.config.LogsURL)), nil, nil))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := &slack.WebhookMessage{
		Text:   errorMsg,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
	if err := m.post(ctx, m.config.WebhookURL, msg); err != nil {
		log.Printf("❌ Failed to send Slack alert: %v", err)
	}
}
