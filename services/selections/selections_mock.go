package selections

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"slackproxy/models"
)

type MockSelectionsService struct {
	mock.Mock
}

func (m *MockSelectionsService) SaveSelection(ctx context.Context, selection *models.PendingSelection) error {
	args := m.Called(ctx, selection)
	return args.Error(0)
}

func (m *MockSelectionsService) TakeSelection(
	ctx context.Context,
	id string,
) (mo.Option[*models.PendingSelection], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.PendingSelection]), args.Error(1)
}
