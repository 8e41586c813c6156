package relations

import (
	"context"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"slackproxy/models"
)

type MockRelationsService struct {
	mock.Mock
}

func (m *MockRelationsService) GetRelationsByInstallationID(
	ctx context.Context,
	installationID string,
) ([]*models.Relation, error) {
	args := m.Called(ctx, installationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Relation), args.Error(1)
}

func (m *MockRelationsService) FindOneRelation(
	ctx context.Context,
	filter models.RelationFilter,
) (mo.Option[*models.Relation], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(mo.Option[*models.Relation]), args.Error(1)
}

func (m *MockRelationsService) GetAllRelations(ctx context.Context) ([]*models.Relation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Relation), args.Error(1)
}

func (m *MockRelationsService) CreateRelationFromOrder(
	ctx context.Context,
	order *models.RegistrationOrder,
	asOf time.Time,
) (*models.Relation, error) {
	args := m.Called(ctx, order, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Relation), args.Error(1)
}

func (m *MockRelationsService) UpdateSupportedCommands(
	ctx context.Context,
	tokenGtoP string,
	broadcast, singleUse models.CommandPermissions,
	asOf time.Time,
) (mo.Option[*models.Relation], error) {
	args := m.Called(ctx, tokenGtoP, broadcast, singleUse, asOf)
	return args.Get(0).(mo.Option[*models.Relation]), args.Error(1)
}

func (m *MockRelationsService) UnregisterRelations(
	ctx context.Context,
	installationID string,
	wikiURIs []string,
) (int64, error) {
	args := m.Called(ctx, installationID, wikiURIs)
	return args.Get(0).(int64), args.Error(1)
}
