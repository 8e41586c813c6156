package wiki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"slackproxy/clients"
)

const (
	// TokenHeader carries the proxy-to-wiki token of the target relation.
	TokenHeader = "x-growi-ptog-tokens"

	CommandsPath     = "/_api/v3/slack-integration/proxied/commands"
	InteractionsPath = "/_api/v3/slack-integration/proxied/interactions"

	maxErrorBodyBytes = 512
)

// StatusError is returned when a wiki answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wiki responded with status %d", e.StatusCode)
}

// Client posts proxied Slack requests to wikis as JSON.
type Client struct {
	httpClient *http.Client
}

func NewClient(httpClient *http.Client) clients.WikiClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient}
}

func (c *Client) PostCommand(ctx context.Context, wikiURI, token string, body any) (int, error) {
	return c.post(ctx, wikiURI, CommandsPath, token, body)
}

func (c *Client) PostInteraction(ctx context.Context, wikiURI, token string, body any) (int, error) {
	return c.post(ctx, wikiURI, InteractionsPath, token, body)
}

func (c *Client) post(ctx context.Context, wikiURI, path, token string, body any) (int, error) {
	endpoint, err := url.JoinPath(wikiURI, path)
	if err != nil {
		return 0, fmt.Errorf("failed to build wiki url: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal wiki request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create wiki request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(TokenHeader, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send wiki request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return resp.StatusCode, &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
