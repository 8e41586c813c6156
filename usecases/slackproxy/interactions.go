package slackproxy

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/slack-go/slack"

	"slackproxy/models"
	"slackproxy/utils"
)

// HandleInteraction answers a Slack interaction. Submissions of the proxy's own
// modals are handled here. Anything else belongs to a wiki and is forwarded.
// form is the raw interaction form, forwarded untouched.
func (u *SlackProxyUseCase) HandleInteraction(
	ctx context.Context,
	installation *models.Installation,
	callback slack.InteractionCallback,
	form map[string]string,
) models.CommandResponse {
	if callback.Type == slack.InteractionTypeViewSubmission {
		switch callback.View.CallbackID {
		case CallbackRegister:
			return u.handleRegisterSubmission(ctx, installation, callback)
		case CallbackUnregister:
			return u.handleUnregisterSubmission(installation, callback)
		case CallbackSelectWiki:
			return u.handleSelectWikiSubmission(installation, callback)
		}
	}

	return models.DeferReply(func(ctx context.Context) error {
		return u.forwardInteraction(ctx, installation, callback, form)
	})
}

func (u *SlackProxyUseCase) handleRegisterSubmission(
	ctx context.Context,
	installation *models.Installation,
	callback slack.InteractionCallback,
) models.CommandResponse {
	wikiURI := utils.NormalizeWikiURI(inputValue(callback.View, BlockWikiURI, ActionWikiURI))
	if !utils.IsHTTPURL(wikiURI) {
		return models.ViewErrors(map[string]string{BlockWikiURI: "Please enter a valid URL"})
	}

	metadata, err := decodeViewMetadata(callback.View.PrivateMetadata)
	if err != nil {
		log.Printf("⚠️ Register submission without metadata: %v", err)
	}

	order := &models.RegistrationOrder{
		InstallationID: installation.ID,
		WikiURI:        wikiURI,
		TokenPtoG:      inputValue(callback.View, BlockTokenPtoG, ActionTokenPtoG),
		TokenGtoP:      inputValue(callback.View, BlockTokenGtoP, ActionTokenGtoP),
		ChannelID:      metadata.ChannelID,
		UserID:         callback.User.ID,
	}
	if order.TokenPtoG == "" {
		return models.ViewErrors(map[string]string{BlockTokenPtoG: "Access token is required"})
	}
	if order.TokenGtoP == "" {
		return models.ViewErrors(map[string]string{BlockTokenGtoP: "Access token is required"})
	}

	if err := u.ordersService.CreateOrder(ctx, order); err != nil {
		log.Printf("❌ Failed to create registration order: %v", err)
		return models.ViewErrors(map[string]string{BlockWikiURI: "Registration failed, please try again"})
	}

	return models.DeferReply(func(ctx context.Context) error {
		u.postEphemeral(ctx, installation, order.ChannelID, order.UserID, registerInstructionsMessage(order.WikiURI, u.proxyURI))
		return nil
	})
}

func (u *SlackProxyUseCase) handleUnregisterSubmission(
	installation *models.Installation,
	callback slack.InteractionCallback,
) models.CommandResponse {
	metadata, err := decodeViewMetadata(callback.View.PrivateMetadata)
	if err != nil || len(metadata.WikiURIs) == 0 {
		log.Printf("❌ Unregister submission without wikis: %v", err)
		return models.Acknowledge()
	}

	userID := callback.User.ID
	return models.DeferReply(func(ctx context.Context) error {
		deleted, err := u.relationsService.UnregisterRelations(ctx, installation.ID, metadata.WikiURIs)
		if err != nil {
			u.postEphemeral(ctx, installation, metadata.ChannelID, userID, commandFailedMessage(models.CommandTypeUnregister))
			return fmt.Errorf("failed to unregister wikis: %w", err)
		}
		u.postEphemeral(ctx, installation, metadata.ChannelID, userID, unregisteredMessage(metadata.WikiURIs, deleted))
		return nil
	})
}

func (u *SlackProxyUseCase) handleSelectWikiSubmission(
	installation *models.Installation,
	callback slack.InteractionCallback,
) models.CommandResponse {
	metadata, err := decodeViewMetadata(callback.View.PrivateMetadata)
	if err != nil {
		log.Printf("❌ Wiki selection without metadata: %v", err)
		return models.Acknowledge()
	}

	wikiURI := inputValue(callback.View, BlockSelectWiki, ActionSelectWiki)
	if wikiURI == "" {
		return models.ViewErrors(map[string]string{BlockSelectWiki: "Please select a wiki"})
	}

	userID := callback.User.ID
	return models.DeferReply(func(ctx context.Context) error {
		return u.runSelection(ctx, installation, metadata, userID, wikiURI)
	})
}

// runSelection resumes a single-use command with the one wiki the user picked.
func (u *SlackProxyUseCase) runSelection(
	ctx context.Context,
	installation *models.Installation,
	metadata viewMetadata,
	userID, wikiURI string,
) error {
	maybeSelection, err := u.selectionsService.TakeSelection(ctx, metadata.SelectionID)
	if err != nil {
		return fmt.Errorf("failed to take pending selection: %w", err)
	}
	selection, ok := maybeSelection.Get()
	if !ok || selection.InstallationID != installation.ID {
		u.postEphemeral(ctx, installation, metadata.ChannelID, userID, selectionExpiredMessage())
		return nil
	}

	command := selection.Command
	if !slices.Contains(selection.WikiURIs, wikiURI) {
		log.Printf("⚠️ Wiki %s was not offered for selection %s", wikiURI, selection.ID)
		u.postEphemeral(ctx, installation, metadata.ChannelID, userID, selectionExpiredMessage())
		return nil
	}

	maybeRelation, err := u.relationsService.FindOneRelation(ctx, models.RelationFilter{
		InstallationID: installation.ID,
		WikiURI:        wikiURI,
	})
	if err != nil {
		return fmt.Errorf("failed to find selected relation: %w", err)
	}
	relation, ok := maybeRelation.Get()
	if !ok {
		u.postEphemeral(ctx, installation, metadata.ChannelID, userID, noRelationMessage())
		return nil
	}

	// Permissions may have changed while the modal was open.
	eligible := u.eligibleRelations([]*models.Relation{relation}, command, models.PermissionModeSingleUse, u.now())
	if len(eligible) == 0 {
		u.postEphemeral(ctx, installation, metadata.ChannelID, userID, u.aggregator.NonePermitted(command.Type, []*models.Relation{relation}))
		return nil
	}

	return u.dispatchAndReport(ctx, installation, command, eligible)
}

func (u *SlackProxyUseCase) forwardInteraction(
	ctx context.Context,
	installation *models.Installation,
	callback slack.InteractionCallback,
	form map[string]string,
) error {
	wikiURI := wikiURIFromInteraction(callback)
	if wikiURI == "" {
		log.Printf("⚠️ Interaction %s does not name a wiki, ignoring", callback.Type)
		return nil
	}

	maybeRelation, err := u.relationsService.FindOneRelation(ctx, models.RelationFilter{
		InstallationID: installation.ID,
		WikiURI:        wikiURI,
	})
	if err != nil {
		return fmt.Errorf("failed to find relation for interaction: %w", err)
	}
	relation, ok := maybeRelation.Get()
	if !ok {
		log.Printf("⚠️ No relation found for interaction from %s", wikiURI)
		return nil
	}

	outcome := u.dispatcher.ForwardInteraction(ctx, form, relation)
	if !outcome.Succeeded() {
		return fmt.Errorf("failed to forward interaction to %s: %w", relation.WikiURI, outcome.Err)
	}
	return nil
}
