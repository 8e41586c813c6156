package txmanager

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTransactionManager is a mock implementation of the TransactionManager interface
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

// PassThrough makes WithTransaction run fn directly and return its error.
func (m *MockTransactionManager) PassThrough() *mock.Call {
	call := m.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	call.Run(func(args mock.Arguments) {
		fn := args.Get(1).(func(ctx context.Context) error)
		call.ReturnArguments = mock.Arguments{fn(args.Get(0).(context.Context))}
	})
	return call
}
