package slackproxy

import (
	"context"
	"errors"
	"log"
	"time"

	"slackproxy/clients"
	"slackproxy/core"
	"slackproxy/models"
	"slackproxy/services"
	"slackproxy/utils"
)

type SlackProxyUseCase struct {
	relationsService     services.RelationsService
	installationsService services.InstallationsService
	selectionsService    services.SelectionsService
	ordersService        services.OrdersService
	evaluator            services.PermissionEvaluator
	dispatcher           services.Dispatcher
	aggregator           services.ResultAggregator
	slackClientFactory   clients.SlackClientFactory
	proxyURI             string
	strictInvariants     bool
	now                  func() time.Time
}

// NewSlackProxyUseCase wires the command routing flow. With strictInvariants
// set, caller bugs such as dispatching to no relation panic instead of being logged.
func NewSlackProxyUseCase(
	relationsService services.RelationsService,
	installationsService services.InstallationsService,
	selectionsService services.SelectionsService,
	ordersService services.OrdersService,
	evaluator services.PermissionEvaluator,
	dispatcher services.Dispatcher,
	aggregator services.ResultAggregator,
	slackClientFactory clients.SlackClientFactory,
	proxyURI string,
	strictInvariants bool,
) *SlackProxyUseCase {
	return &SlackProxyUseCase{
		relationsService:     relationsService,
		installationsService: installationsService,
		selectionsService:    selectionsService,
		ordersService:        ordersService,
		evaluator:            evaluator,
		dispatcher:           dispatcher,
		aggregator:           aggregator,
		slackClientFactory:   slackClientFactory,
		proxyURI:             proxyURI,
		strictInvariants:     strictInvariants,
		now:                  time.Now,
	}
}

func (u *SlackProxyUseCase) slackClient(installation *models.Installation) clients.SlackClient {
	return u.slackClientFactory(installation.BotToken)
}

// postEphemeral shows msg to the requester. Failures are logged and dropped:
// there is nobody left to report them to.
func (u *SlackProxyUseCase) postEphemeral(
	ctx context.Context,
	installation *models.Installation,
	channelID, userID string,
	msg models.Message,
) {
	if channelID == "" || userID == "" {
		log.Printf("⚠️ Cannot post ephemeral message without channel and user: %s", msg.Text)
		return
	}
	if err := u.slackClient(installation).PostEphemeral(ctx, channelID, userID, msg); err != nil {
		log.Printf("❌ Failed to post ephemeral message to channel %s: %v", channelID, err)
	}
}

func (u *SlackProxyUseCase) handleInvalidOperation(err error) {
	if !errors.Is(err, core.ErrInvalidOperation) {
		return
	}
	if u.strictInvariants {
		utils.AssertInvariant(false, err.Error())
	}
	log.Printf("❌ Invalid operation ignored: %v", err)
}
