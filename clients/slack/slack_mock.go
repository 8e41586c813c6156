package slack

import (
	"context"
	"net/http"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/mock"

	"slackproxy/clients"
	"slackproxy/models"
)

// MockSlackClient implements clients.SlackClient and clients.SlackOAuthClient for testing
type MockSlackClient struct {
	mock.Mock
}

func (m *MockSlackClient) GetOAuthV2Response(
	ctx context.Context,
	httpClient *http.Client,
	clientID, clientSecret, code, redirectURL string,
) (*clients.OAuthV2Response, error) {
	args := m.Called(ctx, httpClient, clientID, clientSecret, code, redirectURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.OAuthV2Response), args.Error(1)
}

func (m *MockSlackClient) PostEphemeral(ctx context.Context, channelID, userID string, msg models.Message) error {
	args := m.Called(ctx, channelID, userID, msg)
	return args.Error(0)
}

func (m *MockSlackClient) PostMessage(ctx context.Context, channelID string, msg models.Message) error {
	args := m.Called(ctx, channelID, msg)
	return args.Error(0)
}

func (m *MockSlackClient) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	args := m.Called(ctx, triggerID, view)
	return args.Error(0)
}

// Factory returns a clients.SlackClientFactory that always hands out m.
func (m *MockSlackClient) Factory() clients.SlackClientFactory {
	return func(string) clients.SlackClient {
		return m
	}
}
