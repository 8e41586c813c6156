package slackproxy

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"slackproxy/models"
	"slackproxy/salesnotif"
)

// RelationTestResult tells a wiki whether its connection test passed.
type RelationTestResult int

const (
	RelationTestFailed RelationTestResult = iota
	// RelationTestRegistered: a pending order was confirmed and the relation created.
	RelationTestRegistered
	// RelationTestConnected: the relation already exists.
	RelationTestConnected
)

// TestRelation confirms a pending registration for the wiki presenting
// tokenGtoP, or recognizes an already registered wiki.
func (u *SlackProxyUseCase) TestRelation(ctx context.Context, tokenGtoP string) (RelationTestResult, error) {
	if tokenGtoP == "" {
		return RelationTestFailed, nil
	}

	maybeOrder, err := u.ordersService.GetOrderByTokenGtoP(ctx, tokenGtoP)
	if err != nil {
		return RelationTestFailed, fmt.Errorf("failed to get registration order: %w", err)
	}

	if order, ok := maybeOrder.Get(); ok {
		relation, err := u.relationsService.CreateRelationFromOrder(ctx, order, u.now())
		if err != nil {
			return RelationTestFailed, fmt.Errorf("failed to create relation from order: %w", err)
		}
		if err := u.ordersService.DeleteOrderByTokenGtoP(ctx, tokenGtoP); err != nil {
			log.Printf("⚠️ Failed to delete confirmed order for %s: %v", relation.WikiURI, err)
		}
		salesnotif.New(order.InstallationID, fmt.Sprintf("New wiki registered: %s", relation.WikiURI))
		return RelationTestRegistered, nil
	}

	maybeRelation, err := u.relationsService.FindOneRelation(ctx, models.RelationFilter{TokenGtoP: tokenGtoP})
	if err != nil {
		return RelationTestFailed, fmt.Errorf("failed to find relation by token: %w", err)
	}
	if maybeRelation.IsPresent() {
		return RelationTestConnected, nil
	}

	log.Printf("⚠️ Relation test with unknown token")
	return RelationTestFailed, nil
}

// UpdateSupportedCommands stores the permissions a wiki pushed and renews
// their expiry. Absent means the token matched no relation.
func (u *SlackProxyUseCase) UpdateSupportedCommands(
	ctx context.Context,
	tokenGtoP string,
	broadcast, singleUse models.CommandPermissions,
) (mo.Option[*models.Relation], error) {
	return u.relationsService.UpdateSupportedCommands(ctx, tokenGtoP, broadcast, singleUse, u.now())
}

// HandleUninstall drops everything stored for a workspace that removed the app
// or revoked its tokens.
func (u *SlackProxyUseCase) HandleUninstall(ctx context.Context, teamID, enterpriseID string) error {
	if err := u.installationsService.Uninstall(ctx, teamID, enterpriseID); err != nil {
		return fmt.Errorf("failed to uninstall: %w", err)
	}
	return nil
}

// ResolveInstallation finds the installation a Slack request belongs to.
func (u *SlackProxyUseCase) ResolveInstallation(
	ctx context.Context,
	teamID, enterpriseID string,
) (mo.Option[*models.Installation], error) {
	return u.installationsService.GetInstallationByTeamOrEnterpriseID(ctx, teamID, enterpriseID)
}
