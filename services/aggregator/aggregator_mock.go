package aggregator

import (
	"github.com/stretchr/testify/mock"

	"slackproxy/models"
)

type MockAggregatorService struct {
	mock.Mock
}

func (m *MockAggregatorService) Aggregate(
	outcomes []models.DispatchOutcome,
	commandType models.CommandType,
) models.DispatchReport {
	args := m.Called(outcomes, commandType)
	return args.Get(0).(models.DispatchReport)
}

func (m *MockAggregatorService) NonePermitted(
	commandType models.CommandType,
	relations []*models.Relation,
) models.Message {
	args := m.Called(commandType, relations)
	return args.Get(0).(models.Message)
}
