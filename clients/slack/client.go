package slack

import (
	"context"
	"net/http"

	"github.com/slack-go/slack"

	"slackproxy/clients"
	"slackproxy/models"
)

// SlackClient implements the clients.SlackClient interface using the slack-go/slack SDK
type SlackClient struct {
	*slack.Client
}

// NewSlackClient creates a new Slack client with the provided bot token
func NewSlackClient(botToken string) clients.SlackClient {
	return &SlackClient{
		Client: slack.New(botToken),
	}
}

// NewSlackOAuthClient creates a new Slack client for OAuth operations only
func NewSlackOAuthClient() clients.SlackOAuthClient {
	return &SlackClient{
		Client: slack.New(""),
	}
}

// GetOAuthV2Response exchanges an OAuth authorization code for a bot token
func (c *SlackClient) GetOAuthV2Response(
	ctx context.Context,
	httpClient *http.Client,
	clientID, clientSecret, code, redirectURL string,
) (*clients.OAuthV2Response, error) {
	slackResponse, err := slack.GetOAuthV2ResponseContext(ctx, httpClient, clientID, clientSecret, code, redirectURL)
	if err != nil {
		return nil, err
	}

	return &clients.OAuthV2Response{
		TeamID:       slackResponse.Team.ID,
		TeamName:     slackResponse.Team.Name,
		EnterpriseID: slackResponse.Enterprise.ID,
		AccessToken:  slackResponse.AccessToken,
		BotUserID:    slackResponse.BotUserID,
	}, nil
}

// PostEphemeral shows msg to a single user in a channel
func (c *SlackClient) PostEphemeral(ctx context.Context, channelID, userID string, msg models.Message) error {
	_, err := c.Client.PostEphemeralContext(ctx, channelID, userID, MessageOptions(msg)...)
	return err
}

// PostMessage sends msg to a channel
func (c *SlackClient) PostMessage(ctx context.Context, channelID string, msg models.Message) error {
	_, _, err := c.Client.PostMessageContext(ctx, channelID, MessageOptions(msg)...)
	return err
}

// OpenView opens a modal in response to a command or interaction trigger
func (c *SlackClient) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	_, err := c.Client.OpenViewContext(ctx, triggerID, view)
	return err
}
