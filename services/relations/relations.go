package relations

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/samber/mo"

	"slackproxy/core"
	"slackproxy/db"
	"slackproxy/metrics"
	"slackproxy/models"
	"slackproxy/utils"
)

type RelationsService struct {
	relationsRepo  *db.PostgresRelationsRepository
	permissionsTTL time.Duration
}

// NewRelationsService creates the relation store. Permission snapshots it
// writes expire permissionsTTL after they are stored.
func NewRelationsService(repo *db.PostgresRelationsRepository, permissionsTTL time.Duration) *RelationsService {
	return &RelationsService{relationsRepo: repo, permissionsTTL: permissionsTTL}
}

func (s *RelationsService) GetRelationsByInstallationID(
	ctx context.Context,
	installationID string,
) ([]*models.Relation, error) {
	if installationID == "" {
		return nil, fmt.Errorf("installation ID cannot be empty")
	}

	relations, err := s.relationsRepo.GetRelationsByInstallationID(ctx, installationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get relations for installation %s: %w", installationID, err)
	}
	return relations, nil
}

func (s *RelationsService) FindOneRelation(
	ctx context.Context,
	filter models.RelationFilter,
) (mo.Option[*models.Relation], error) {
	filter.WikiURI = utils.NormalizeWikiURI(filter.WikiURI)

	relation, err := s.relationsRepo.FindOneRelation(ctx, filter)
	if err != nil {
		return mo.None[*models.Relation](), fmt.Errorf("failed to find relation: %w", err)
	}
	return relation, nil
}

func (s *RelationsService) GetAllRelations(ctx context.Context) ([]*models.Relation, error) {
	relations, err := s.relationsRepo.GetAllRelations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all relations: %w", err)
	}
	return relations, nil
}

// CreateRelationFromOrder turns a confirmed registration order into a relation
// with default permissions. Registering the same wiki again replaces its tokens.
func (s *RelationsService) CreateRelationFromOrder(
	ctx context.Context,
	order *models.RegistrationOrder,
	asOf time.Time,
) (*models.Relation, error) {
	log.Printf("📋 Starting to create relation for %s", order.WikiURI)

	expireAt := asOf.Add(s.permissionsTTL)
	relation := &models.Relation{
		ID:                         core.NewID(core.RelationIDPrefix),
		InstallationID:             order.InstallationID,
		WikiURI:                    utils.NormalizeWikiURI(order.WikiURI),
		TokenPtoG:                  order.TokenPtoG,
		TokenGtoP:                  order.TokenGtoP,
		PermissionsForBroadcastUse: models.DefaultBroadcastPermissions(),
		PermissionsForSingleUse:    models.DefaultSingleUsePermissions(),
		PermissionsExpireAt:        &expireAt,
	}

	if err := s.relationsRepo.UpsertRelation(ctx, relation); err != nil {
		return nil, fmt.Errorf("failed to create relation: %w", err)
	}
	metrics.RelationsRegistered.Inc()

	log.Printf("📋 Completed successfully - created relation %s for %s", relation.ID, relation.WikiURI)
	return relation, nil
}

// UpdateSupportedCommands replaces a relation's permission snapshot and renews
// its expiry. The relation is identified by the token the wiki presented.
func (s *RelationsService) UpdateSupportedCommands(
	ctx context.Context,
	tokenGtoP string,
	broadcast, singleUse models.CommandPermissions,
	asOf time.Time,
) (mo.Option[*models.Relation], error) {
	log.Printf("📋 Starting to update supported commands")
	if tokenGtoP == "" {
		return mo.None[*models.Relation](), nil
	}

	maybeRelation, err := s.relationsRepo.FindOneRelation(ctx, models.RelationFilter{TokenGtoP: tokenGtoP})
	if err != nil {
		return mo.None[*models.Relation](), fmt.Errorf("failed to find relation by token: %w", err)
	}
	relation, ok := maybeRelation.Get()
	if !ok {
		return mo.None[*models.Relation](), nil
	}

	if broadcast == nil {
		broadcast = models.CommandPermissions{}
	}
	if singleUse == nil {
		singleUse = models.CommandPermissions{}
	}
	expireAt := asOf.Add(s.permissionsTTL)

	updated, err := s.relationsRepo.UpdateRelationPermissions(ctx, relation.ID, broadcast, singleUse, expireAt)
	if err != nil {
		return mo.None[*models.Relation](), fmt.Errorf("failed to update relation permissions: %w", err)
	}
	if !updated {
		return mo.None[*models.Relation](), nil
	}

	relation.PermissionsForBroadcastUse = broadcast
	relation.PermissionsForSingleUse = singleUse
	relation.PermissionsExpireAt = &expireAt

	log.Printf("📋 Completed successfully - updated supported commands of %s", relation.WikiURI)
	return mo.Some(relation), nil
}

// UnregisterRelations removes the installation's relations to the given wikis
// and returns how many were removed.
func (s *RelationsService) UnregisterRelations(
	ctx context.Context,
	installationID string,
	wikiURIs []string,
) (int64, error) {
	log.Printf("📋 Starting to unregister %d wikis from installation %s", len(wikiURIs), installationID)
	if installationID == "" {
		return 0, fmt.Errorf("installation ID cannot be empty")
	}
	if len(wikiURIs) == 0 {
		return 0, nil
	}

	normalized := make([]string, 0, len(wikiURIs))
	for _, uri := range wikiURIs {
		normalized = append(normalized, utils.NormalizeWikiURI(uri))
	}

	deleted, err := s.relationsRepo.DeleteRelationsByWikiURIs(ctx, installationID, normalized)
	if err != nil {
		return 0, fmt.Errorf("failed to unregister relations: %w", err)
	}

	log.Printf("📋 Completed successfully - unregistered %d relations", deleted)
	return deleted, nil
}
