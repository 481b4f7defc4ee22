package workflow

import (
	"context"
	"fmt"
	"testing"

	"github.com/elints/backend/internal/domain/shared"
	"github.com/elints/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, itemCount int) *workflow.Order {
	t.Helper()
	items := make([]workflow.OrderItem, 0, itemCount)
	for i := 0; i < itemCount; i++ {
		item, err := workflow.NewOrderItem(uuid.New(), fmt.Sprintf("Item %d", i+1), decimal.NewFromInt(1), "pcs", decimal.NewFromInt(100), nil, "")
		require.NoError(t, err)
		items = append(items, *item)
	}
	order, err := workflow.NewOrder(uuid.New(), "PO-1001", items)
	require.NoError(t, err)
	return order
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

func TestOrderService_Create(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo)

	orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*workflow.Order")).Return(nil)

	resp, err := service.Create(context.Background(), CreateOrderRequest{
		PartyID:  uuid.New(),
		PONumber: "PO-1001",
		Items: []CreateOrderItemInput{
			{ItemID: uuid.New(), Name: "Widget", Quantity: decimal.NewFromInt(10), Unit: "pcs", Rate: decimal.NewFromInt(25)},
			{ItemID: uuid.New(), Name: "Gadget", Quantity: decimal.NewFromInt(4), Rate: decimal.NewFromFloat(12.5)},
		},
		Notes: "rush order",
	})

	require.NoError(t, err)
	assert.Equal(t, string(workflow.OrderStatusNew), resp.Status)
	assert.Len(t, resp.Items, 2)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(300)))
	require.Len(t, resp.StatusHistory, 1)
	assert.Equal(t, "Order Created", resp.StatusHistory[0].Note)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_Create_InvalidItem(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo)

	_, err := service.Create(context.Background(), CreateOrderRequest{
		PartyID:  uuid.New(),
		PONumber: "PO-1001",
		Items: []CreateOrderItemInput{
			{ItemID: uuid.New(), Name: "Widget", Quantity: decimal.Zero, Rate: decimal.NewFromInt(25)},
		},
	})

	assert.Equal(t, "VALIDATION_ERROR", domainCode(t, err))
	orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo)
	order := newTestOrder(t, 1)

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

	resp, err := service.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "Verified"})

	require.NoError(t, err)
	assert.Equal(t, string(workflow.OrderStatusVerified), resp.Status)
	assert.Len(t, resp.StatusHistory, 2)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_UpdateStatus_RejectsSkip(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo)
	order := newTestOrder(t, 1)

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	_, err := service.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "Manufacturing"})

	assert.Equal(t, "INVALID_TRANSITION", domainCode(t, err))
	orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestOrderService_UpdateStatus_NotFound(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo)

	orderRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	_, err := service.UpdateStatus(context.Background(), uuid.New(), UpdateStatusRequest{Status: "Verified"})

	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestOrderService_Delete(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo)
	order := newTestOrder(t, 1)

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

	err := service.Delete(context.Background(), order.ID, DeleteOrderRequest{Note: "duplicate entry"})

	require.NoError(t, err)
	assert.True(t, order.IsDeleted())
	assert.Equal(t, "duplicate entry", order.StatusHistory[len(order.StatusHistory)-1].Note)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_AssignAccountEmployee(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo)
	order := newTestOrder(t, 1)
	employeeID := uuid.New()

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

	resp, err := service.AssignAccountEmployee(context.Background(), order.ID, employeeID)

	require.NoError(t, err)
	require.NotNil(t, resp.AssignedAccountEmployee)
	assert.Equal(t, employeeID, *resp.AssignedAccountEmployee)

	_, err = service.AssignAccountEmployee(context.Background(), order.ID, uuid.Nil)
	assert.Equal(t, "VALIDATION_ERROR", domainCode(t, err))
}

func TestOrderService_List_AppliesDefaults(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := NewOrderService(orderRepo)

	orderRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "created_at" && f.OrderDir == "desc"
	})).Return([]workflow.Order{*newTestOrder(t, 2)}, nil)
	orderRepo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	items, total, err := service.List(context.Background(), OrderListFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].ItemCount)
	orderRepo.AssertExpectations(t)
}
