package services

import (
	"context"
	"time"

	"github.com/samber/mo"

	"slackproxy/models"
)

// RelationsService is the relation store seen by the rest of the proxy.
type RelationsService interface {
	GetRelationsByInstallationID(ctx context.Context, installationID string) ([]*models.Relation, error)
	FindOneRelation(ctx context.Context, filter models.RelationFilter) (mo.Option[*models.Relation], error)
	GetAllRelations(ctx context.Context) ([]*models.Relation, error)
	CreateRelationFromOrder(
		ctx context.Context,
		order *models.RegistrationOrder,
		asOf time.Time,
	) (*models.Relation, error)
	UpdateSupportedCommands(
		ctx context.Context,
		tokenGtoP string,
		broadcast, singleUse models.CommandPermissions,
		asOf time.Time,
	) (mo.Option[*models.Relation], error)
	UnregisterRelations(ctx context.Context, installationID string, wikiURIs []string) (int64, error)
}

// InstallationsService manages Slack workspace installations.
type InstallationsService interface {
	NewInstallURL(ctx context.Context) (string, error)
	CompleteInstall(ctx context.Context, state, code string) (*models.Installation, error)
	GetInstallationByTeamOrEnterpriseID(
		ctx context.Context,
		teamID, enterpriseID string,
	) (mo.Option[*models.Installation], error)
	Uninstall(ctx context.Context, teamID, enterpriseID string) error
}

// PermissionEvaluator decides whether a relation may run a command.
type PermissionEvaluator interface {
	IsAllowed(relation *models.Relation, query models.PermissionQuery) bool
}

// Dispatcher delivers commands and interactions to wikis.
type Dispatcher interface {
	DispatchCommand(
		ctx context.Context,
		command models.Command,
		relations []*models.Relation,
	) ([]models.DispatchOutcome, error)
	ForwardInteraction(
		ctx context.Context,
		payload map[string]string,
		relation *models.Relation,
	) models.DispatchOutcome
}

// ResultAggregator turns dispatch outcomes into what the requester sees.
type ResultAggregator interface {
	Aggregate(outcomes []models.DispatchOutcome, commandType models.CommandType) models.DispatchReport
	NonePermitted(commandType models.CommandType, relations []*models.Relation) models.Message
}

// SelectionsService keeps single-use commands until the user picks a wiki.
type SelectionsService interface {
	SaveSelection(ctx context.Context, selection *models.PendingSelection) error
	TakeSelection(ctx context.Context, id string) (mo.Option[*models.PendingSelection], error)
}

// OrdersService keeps wiki registrations until the wiki confirms them.
type OrdersService interface {
	CreateOrder(ctx context.Context, order *models.RegistrationOrder) error
	GetOrderByTokenGtoP(ctx context.Context, tokenGtoP string) (mo.Option[*models.RegistrationOrder], error)
	DeleteOrderByTokenGtoP(ctx context.Context, tokenGtoP string) error
}

// TransactionManager groups repository writes.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
