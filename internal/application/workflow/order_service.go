package workflow

import (
	"context"

	"github.com/elints/backend/internal/domain/shared"
	"github.com/elints/backend/internal/domain/workflow"
	"github.com/google/uuid"
)

// OrderService handles order lifecycle operations
type OrderService struct {
	orders workflow.OrderRepository
}

// NewOrderService creates a new OrderService
func NewOrderService(orders workflow.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

// Create creates a new order in the New stage
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	items := make([]workflow.OrderItem, 0, len(req.Items))
	for _, input := range req.Items {
		item, err := workflow.NewOrderItem(
			input.ItemID,
			input.Name,
			input.Quantity,
			input.Unit,
			input.Rate,
			input.DeliveryDate,
			workflow.ItemPriority(input.Priority),
		)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	order, err := workflow.NewOrder(req.PartyID, req.PONumber, items)
	if err != nil {
		return nil, err
	}

	if req.PODate != nil {
		order.PODate = *req.PODate
	}
	order.EstimatedDeliveryDate = req.EstimatedDeliveryDate
	order.Notes = req.Notes

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.PartyID != nil {
		domainFilter.Filters["party_id"] = *filter.PartyID
	}
	if filter.EmployeeID != nil {
		domainFilter.Filters["assigned_account_employee"] = *filter.EmployeeID
	}

	orders, err := s.orders.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orders.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderListItemResponses(orders), total, nil
}

// UpdateStatus moves an order to the requested status, which must be exactly
// the next stage in the chain
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Advance(workflow.OrderStatus(req.Status), req.Note); err != nil {
		return nil, err
	}

	if err := s.orders.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Delete marks an order Deleted through the administrative path. The record
// is kept with its full status history; it only disappears from projections.
func (s *OrderService) Delete(ctx context.Context, orderID uuid.UUID, req DeleteOrderRequest) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := order.MarkDeleted(req.Note); err != nil {
		return err
	}

	return s.orders.SaveWithLock(ctx, order)
}

// AssignAccountEmployee sets the order-level accounts assignee
func (s *OrderService) AssignAccountEmployee(ctx context.Context, orderID, employeeID uuid.UUID) (*OrderResponse, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Employee reference cannot be empty")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsDeleted() {
		return nil, shared.ErrNotFound
	}

	order.AssignAccountEmployee(employeeID)

	if err := s.orders.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}
