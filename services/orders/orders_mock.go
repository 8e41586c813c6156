package orders

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"slackproxy/models"
)

type MockOrdersService struct {
	mock.Mock
}

func (m *MockOrdersService) CreateOrder(ctx context.Context, order *models.RegistrationOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrdersService) GetOrderByTokenGtoP(
	ctx context.Context,
	tokenGtoP string,
) (mo.Option[*models.RegistrationOrder], error) {
	args := m.Called(ctx, tokenGtoP)
	return args.Get(0).(mo.Option[*models.RegistrationOrder]), args.Error(1)
}

func (m *MockOrdersService) DeleteOrderByTokenGtoP(ctx context.Context, tokenGtoP string) error {
	args := m.Called(ctx, tokenGtoP)
	return args.Error(0)
}
