package dispatch

import (
	"context"

	"github.com/stretchr/testify/mock"

	"slackproxy/models"
)

type MockDispatchService struct {
	mock.Mock
}

func (m *MockDispatchService) DispatchCommand(
	ctx context.Context,
	command models.Command,
	relations []*models.Relation,
) ([]models.DispatchOutcome, error) {
	args := m.Called(ctx, command, relations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DispatchOutcome), args.Error(1)
}

func (m *MockDispatchService) ForwardInteraction(
	ctx context.Context,
	payload map[string]string,
	relation *models.Relation,
) models.DispatchOutcome {
	args := m.Called(ctx, payload, relation)
	return args.Get(0).(models.DispatchOutcome)
}
