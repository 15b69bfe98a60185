package http

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) UpsertIfAbsent(ctx context.Context, email string, profile entity.User) (*entity.User, error) {
	args := m.Called(ctx, email, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) GetRole(ctx context.Context, email string) (entity.Role, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(entity.Role), args.Error(1)
}

func (m *MockUserService) RequestRoleChange(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockUserService) GrantRole(ctx context.Context, email string, role entity.Role) (*entity.User, error) {
	args := m.Called(ctx, email, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) ListAllExcept(ctx context.Context, email string) ([]entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

type MockPlantService struct {
	mock.Mock
}

func (m *MockPlantService) Create(ctx context.Context, sellerEmail string, plant entity.Plant) (*entity.Plant, error) {
	args := m.Called(ctx, sellerEmail, plant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Plant), args.Error(1)
}

func (m *MockPlantService) List(ctx context.Context) ([]entity.Plant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Plant), args.Error(1)
}

func (m *MockPlantService) Get(ctx context.Context, id string) (*entity.Plant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Plant), args.Error(1)
}

func (m *MockPlantService) UploadImage(ctx context.Context, params repository.UploadImageParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) AdjustQuantity(ctx context.Context, plantID string, delta int) (int, error) {
	args := m.Called(ctx, plantID, delta)
	return args.Int(0), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, input entity.PlaceOrderInput) (*entity.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) SetStatus(ctx context.Context, orderID string, status entity.OrderStatus) (*entity.Order, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) Cancel(ctx context.Context, orderID, callerEmail string) error {
	return m.Called(ctx, orderID, callerEmail).Error(0)
}

func (m *MockOrderService) ListForCustomer(ctx context.Context, email string) ([]entity.EnrichedOrder, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.EnrichedOrder), args.Error(1)
}

func (m *MockOrderService) ListForSeller(ctx context.Context, email string) ([]entity.EnrichedOrder, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.EnrichedOrder), args.Error(1)
}
