package installations

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"slackproxy/models"
)

type MockInstallationsService struct {
	mock.Mock
}

func (m *MockInstallationsService) NewInstallURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockInstallationsService) CompleteInstall(
	ctx context.Context,
	state, code string,
) (*models.Installation, error) {
	args := m.Called(ctx, state, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Installation), args.Error(1)
}

func (m *MockInstallationsService) GetInstallationByTeamOrEnterpriseID(
	ctx context.Context,
	teamID, enterpriseID string,
) (mo.Option[*models.Installation], error) {
	args := m.Called(ctx, teamID, enterpriseID)
	return args.Get(0).(mo.Option[*models.Installation]), args.Error(1)
}

func (m *MockInstallationsService) Uninstall(ctx context.Context, teamID, enterpriseID string) error {
	args := m.Called(ctx, teamID, enterpriseID)
	return args.Error(0)
}
