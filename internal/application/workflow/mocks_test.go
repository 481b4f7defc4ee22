package workflow

import (
	"context"

	"github.com/elints/backend/internal/domain/shared"
	"github.com/elints/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of workflow.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*workflow.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]workflow.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]workflow.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *workflow.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *workflow.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountAssigned(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountUnassigned(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByEmployee(ctx context.Context, employeeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByEmployeeAndStatus(ctx context.Context, employeeID uuid.UUID, status workflow.OrderStatus) (int64, error) {
	args := m.Called(ctx, employeeID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountGroupedByStatus(ctx context.Context) (map[workflow.OrderStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[workflow.OrderStatus]int64), args.Error(1)
}

// MockMappingRepository is a mock implementation of workflow.MappingRepository
type MockMappingRepository struct {
	mock.Mock
}

func (m *MockMappingRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]workflow.Mapping, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]workflow.Mapping), args.Error(1)
}

func (m *MockMappingRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]workflow.Mapping, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]workflow.Mapping), args.Error(1)
}

func (m *MockMappingRepository) FindByPair(ctx context.Context, orderID, orderItemID uuid.UUID) (*workflow.Mapping, error) {
	args := m.Called(ctx, orderID, orderItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Mapping), args.Error(1)
}

func (m *MockMappingRepository) FindByEmployeeAndItem(ctx context.Context, employeeID, orderItemID uuid.UUID) (*workflow.Mapping, error) {
	args := m.Called(ctx, employeeID, orderItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Mapping), args.Error(1)
}

func (m *MockMappingRepository) FindByJobNumbers(ctx context.Context, jobNumbers []string) ([]workflow.Mapping, error) {
	args := m.Called(ctx, jobNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]workflow.Mapping), args.Error(1)
}

func (m *MockMappingRepository) UpsertBatch(ctx context.Context, mappings []*workflow.Mapping) error {
	args := m.Called(ctx, mappings)
	return args.Error(0)
}

func (m *MockMappingRepository) CreateBatch(ctx context.Context, mappings []*workflow.Mapping) error {
	args := m.Called(ctx, mappings)
	return args.Error(0)
}

func (m *MockMappingRepository) Save(ctx context.Context, mapping *workflow.Mapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockMappingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMappingRepository) GroupedByOrder(ctx context.Context) (map[uuid.UUID][]workflow.Mapping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]workflow.Mapping), args.Error(1)
}

// MockSequencer is a mock implementation of sequence.Sequencer
type MockSequencer struct {
	mock.Mock
}

func (m *MockSequencer) Next(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}
