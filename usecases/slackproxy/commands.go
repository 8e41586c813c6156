package slackproxy

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"slackproxy/metrics"
	"slackproxy/models"
	"slackproxy/services/commands"
	"slackproxy/utils"
)

// HandleCommand answers one slash command. Builtins that need no lookup are
// answered immediately. Everything that talks to wikis or opens a modal is
// deferred until Slack has been acknowledged.
func (u *SlackProxyUseCase) HandleCommand(
	ctx context.Context,
	installation *models.Installation,
	event models.SlashCommandEvent,
) models.CommandResponse {
	command, err := commands.Parse(event)
	if err != nil {
		var parseErr *commands.ParseError
		if errors.As(err, &parseErr) {
			return models.ImmediateReply(usageHintMessage(parseErr.Reason))
		}
		return models.ImmediateReply(usageHintMessage(err.Error()))
	}
	metrics.CommandsReceived.WithLabelValues(string(command.Type)).Inc()
	log.Printf("📋 Starting to handle command %s from team %s", command.Type, event.TeamID)

	switch command.Type {
	case models.CommandTypeHelp:
		return models.ImmediateReply(helpMessage())
	case models.CommandTypeRegister:
		return models.DeferReply(func(ctx context.Context) error {
			return u.slackClient(installation).OpenView(ctx, event.TriggerID, registerView(event.ChannelID))
		})
	case models.CommandTypeUnregister:
		return u.handleUnregisterCommand(installation, command)
	}

	relations, err := u.relationsService.GetRelationsByInstallationID(ctx, installation.ID)
	if err != nil {
		log.Printf("❌ Failed to get relations for installation %s: %v", installation.ID, err)
		return models.ImmediateReply(relationsLookupFailedMessage())
	}
	if len(relations) == 0 {
		return models.ImmediateReply(noRelationMessage())
	}

	if command.Type == models.CommandTypeStatus {
		return models.ImmediateReply(statusMessage(relations))
	}

	return models.DeferReply(func(ctx context.Context) error {
		return u.routeCommand(ctx, installation, command, relations)
	})
}

func (u *SlackProxyUseCase) handleUnregisterCommand(
	installation *models.Installation,
	command models.Command,
) models.CommandResponse {
	if len(command.Args) == 0 {
		return models.ImmediateReply(unregisterURLsRequiredMessage())
	}

	var invalid []string
	wikiURIs := make([]string, 0, len(command.Args))
	for _, arg := range command.Args {
		uri := utils.NormalizeWikiURI(arg)
		if !utils.IsHTTPURL(uri) {
			invalid = append(invalid, arg)
			continue
		}
		wikiURIs = append(wikiURIs, uri)
	}
	if len(invalid) > 0 {
		return models.ImmediateReply(unregisterInvalidURLsMessage(invalid))
	}

	event := command.Event
	return models.DeferReply(func(ctx context.Context) error {
		return u.slackClient(installation).OpenView(ctx, event.TriggerID, unregisterView(event.ChannelID, wikiURIs))
	})
}

// routeCommand authorizes a wiki command against every relation, then either
// asks the user to pick one wiki (single use) or fans out (broadcast).
// Single use wins for the whole request as soon as one relation allows it.
func (u *SlackProxyUseCase) routeCommand(
	ctx context.Context,
	installation *models.Installation,
	command models.Command,
	relations []*models.Relation,
) error {
	event := command.Event
	asOf := u.now()

	singleUse := u.eligibleRelations(relations, command, models.PermissionModeSingleUse, asOf)
	if len(singleUse) > 0 {
		return u.askForWiki(ctx, installation, command, singleUse)
	}

	broadcast := u.eligibleRelations(relations, command, models.PermissionModeBroadcast, asOf)
	if len(broadcast) == 0 {
		metrics.NonePermittedTotal.Inc()
		log.Printf("⚠️ No wiki permitted command %s in channel %s", command.Type, event.ChannelID)
		u.postEphemeral(ctx, installation, event.ChannelID, event.UserID, u.aggregator.NonePermitted(command.Type, relations))
		return nil
	}

	return u.dispatchAndReport(ctx, installation, command, broadcast)
}

func (u *SlackProxyUseCase) eligibleRelations(
	relations []*models.Relation,
	command models.Command,
	mode models.PermissionMode,
	asOf time.Time,
) []*models.Relation {
	query := models.PermissionQuery{
		CommandType: command.Type,
		Mode:        mode,
		AsOf:        asOf,
		ChannelID:   command.Event.ChannelID,
		ChannelName: command.Event.ChannelName,
	}

	var eligible []*models.Relation
	for _, relation := range relations {
		if u.evaluator.IsAllowed(relation, query) {
			eligible = append(eligible, relation)
		}
	}
	return eligible
}

func (u *SlackProxyUseCase) askForWiki(
	ctx context.Context,
	installation *models.Installation,
	command models.Command,
	relations []*models.Relation,
) error {
	wikiURIs := make([]string, 0, len(relations))
	for _, relation := range relations {
		wikiURIs = append(wikiURIs, relation.WikiURI)
	}

	selection := &models.PendingSelection{
		InstallationID: installation.ID,
		Command:        command,
		WikiURIs:       wikiURIs,
	}
	if err := u.selectionsService.SaveSelection(ctx, selection); err != nil {
		u.postEphemeral(ctx, installation, command.Event.ChannelID, command.Event.UserID, commandFailedMessage(command.Type))
		return fmt.Errorf("failed to save pending selection: %w", err)
	}

	view := selectWikiView(command.Event.ChannelID, selection.ID, wikiURIs)
	if err := u.slackClient(installation).OpenView(ctx, command.Event.TriggerID, view); err != nil {
		u.postEphemeral(ctx, installation, command.Event.ChannelID, command.Event.UserID, commandFailedMessage(command.Type))
		return fmt.Errorf("failed to open wiki selection: %w", err)
	}

	log.Printf("📋 Completed successfully - asked user to pick one of %d wikis for %s", len(wikiURIs), command.Type)
	return nil
}

func (u *SlackProxyUseCase) dispatchAndReport(
	ctx context.Context,
	installation *models.Installation,
	command models.Command,
	relations []*models.Relation,
) error {
	outcomes, err := u.dispatcher.DispatchCommand(ctx, command, relations)
	if err != nil {
		u.handleInvalidOperation(err)
		return fmt.Errorf("failed to dispatch command %s: %w", command.Type, err)
	}

	report := u.aggregator.Aggregate(outcomes, command.Type)
	if report.Notice != nil {
		u.postEphemeral(ctx, installation, command.Event.ChannelID, command.Event.UserID, *report.Notice)
	}

	log.Printf(
		"📋 Completed successfully - command %s delivered to %d of %d wikis",
		command.Type,
		len(report.Succeeded),
		len(outcomes),
	)
	return nil
}
