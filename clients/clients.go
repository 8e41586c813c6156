package clients

import (
	"context"
	"net/http"

	"github.com/slack-go/slack"

	"slackproxy/models"
)

// OAuthV2Response carries the fields of Slack's oauth.v2.access answer the
// proxy keeps for an installation.
type OAuthV2Response struct {
	TeamID       string
	TeamName     string
	EnterpriseID string
	AccessToken  string
	BotUserID    string
}

// SlackOAuthClient defines the interface for Slack OAuth operations
type SlackOAuthClient interface {
	GetOAuthV2Response(
		ctx context.Context,
		httpClient *http.Client,
		clientID, clientSecret, code, redirectURL string,
	) (*OAuthV2Response, error)
}

// SlackClient is the bot-token scoped Slack API surface used to answer users.
type SlackClient interface {
	PostEphemeral(ctx context.Context, channelID, userID string, msg models.Message) error
	PostMessage(ctx context.Context, channelID string, msg models.Message) error
	OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error
}

// SlackClientFactory builds a SlackClient for one installation's bot token.
type SlackClientFactory func(botToken string) SlackClient

// WikiClient delivers proxied requests to a registered wiki.
type WikiClient interface {
	PostCommand(ctx context.Context, wikiURI, token string, body any) (int, error)
	PostInteraction(ctx context.Context, wikiURI, token string, body any) (int, error)
}
