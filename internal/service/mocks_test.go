package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/notification"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) SetStatus(ctx context.Context, email string, status entity.UserStatus) error {
	args := m.Called(ctx, email, status)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, params repository.UpdateRoleParams) (*entity.User, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) ListExcept(ctx context.Context, email string) ([]entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

type MockRoleCache struct {
	mock.Mock
}

func (m *MockRoleCache) Get(ctx context.Context, email string) (entity.Role, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(entity.Role), args.Error(1)
}

func (m *MockRoleCache) Set(ctx context.Context, email string, role entity.Role) error {
	args := m.Called(ctx, email, role)
	return args.Error(0)
}

func (m *MockRoleCache) Delete(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *entity.Order) (string, error) {
	args := m.Called(ctx, order)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) DeleteCancellable(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) ListEnriched(ctx context.Context, filter repository.OrderFilter, view entity.OrderView) ([]entity.EnrichedOrder, error) {
	args := m.Called(ctx, filter, view)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.EnrichedOrder), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(ctx context.Context, email notification.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) Upload(ctx context.Context, params repository.UploadImageParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

type MockRoleLookup struct {
	mock.Mock
}

func (m *MockRoleLookup) GetRole(ctx context.Context, email string) (entity.Role, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(entity.Role), args.Error(1)
}

// directTx runs fn without a transaction, like the non-replica-set deployment.
type directTx struct{}

func (directTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memPlantRepo is an in-memory PlantRepository with the same floor rule as Mongo.
type memPlantRepo struct {
	mu     sync.Mutex
	plants map[string]*entity.Plant
	nextID int

	// failing adjustments left; negative fails every call.
	adjustFailures int
	adjustErr      error
}

func newMemPlantRepo(plants ...entity.Plant) *memPlantRepo {
	r := &memPlantRepo{plants: map[string]*entity.Plant{}}
	for i := range plants {
		p := plants[i]
		r.plants[p.ID] = &p
	}
	return r
}

func (r *memPlantRepo) Create(_ context.Context, plant *entity.Plant) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p := *plant
	p.ID = "plant-" + strconv.Itoa(r.nextID)
	r.plants[p.ID] = &p
	return p.ID, nil
}

func (r *memPlantRepo) GetByID(_ context.Context, id string) (*entity.Plant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPlantRepo) List(_ context.Context) ([]entity.Plant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Plant, 0, len(r.plants))
	for _, p := range r.plants {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memPlantRepo) AdjustQuantity(_ context.Context, id string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.adjustFailures != 0 {
		if r.adjustFailures > 0 {
			r.adjustFailures--
		}
		return 0, r.adjustErr
	}
	p, ok := r.plants[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if p.Quantity+delta < 0 {
		return 0, repository.ErrInsufficientStock
	}
	p.Quantity += delta
	return p.Quantity, nil
}

func (r *memPlantRepo) failAdjustments(n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adjustFailures = n
	r.adjustErr = err
}

func (r *memPlantRepo) quantity(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.plants[id].Quantity
}
