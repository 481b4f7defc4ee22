package workflow

import (
	"time"

	"github.com/elints/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Order DTOs ====================

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	PartyID               uuid.UUID              `json:"party_id" binding:"required"`
	PONumber              string                 `json:"po_number" binding:"required,min=1,max=100"`
	PODate                *time.Time             `json:"po_date"`
	EstimatedDeliveryDate *time.Time             `json:"estimated_delivery_date"`
	Items                 []CreateOrderItemInput `json:"items" binding:"required,min=1,dive"`
	Notes                 string                 `json:"notes"`
}

// CreateOrderItemInput represents a line item in the create order request
type CreateOrderItemInput struct {
	ItemID       uuid.UUID       `json:"item_id" binding:"required"`
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	Unit         string          `json:"unit" binding:"max=20"`
	Rate         decimal.Decimal `json:"rate"`
	DeliveryDate *time.Time      `json:"delivery_date"`
	Priority     string          `json:"priority" binding:"omitempty,oneof=Normal High"`
}

// UpdateStatusRequest represents a request to move an order to its next stage
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=500"`
}

// DeleteOrderRequest represents an administrative order deletion
type DeleteOrderRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search     string                `form:"search"`
	Status     *workflow.OrderStatus `form:"status"`
	PartyID    *uuid.UUID            `form:"party_id"`
	EmployeeID *uuid.UUID            `form:"employee_id"`
	Page       int                   `form:"page" binding:"min=0"`
	PageSize   int                   `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string                `form:"order_by"`
	OrderDir   string                `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StatusEntryResponse represents one status history record
type StatusEntryResponse struct {
	Status    string    `json:"status"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderItemResponse represents an order line item in API responses
type OrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ItemID       uuid.UUID       `json:"item_id"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Rate         decimal.Decimal `json:"rate"`
	Amount       decimal.Decimal `json:"amount"`
	DeliveryDate *time.Time      `json:"delivery_date,omitempty"`
	AssignedTo   *uuid.UUID      `json:"assigned_to,omitempty"`
	Completed    bool            `json:"completed"`
	Priority     string          `json:"priority"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                      uuid.UUID             `json:"id"`
	PartyID                 uuid.UUID             `json:"party_id"`
	PONumber                string                `json:"po_number"`
	PODate                  time.Time             `json:"po_date"`
	EstimatedDeliveryDate   *time.Time            `json:"estimated_delivery_date,omitempty"`
	Status                  string                `json:"status"`
	AssignedAccountEmployee *uuid.UUID            `json:"assigned_account_employee,omitempty"`
	Items                   []OrderItemResponse   `json:"items"`
	StatusHistory           []StatusEntryResponse `json:"status_history"`
	TotalAmount             decimal.Decimal       `json:"total_amount"`
	Notes                   string                `json:"notes,omitempty"`
	CreatedAt               time.Time             `json:"created_at"`
	UpdatedAt               time.Time             `json:"updated_at"`
	Version                 int                   `json:"version"`
}

// OrderListItemResponse represents an order in list responses (less detail)
type OrderListItemResponse struct {
	ID                      uuid.UUID       `json:"id"`
	PartyID                 uuid.UUID       `json:"party_id"`
	PONumber                string          `json:"po_number"`
	PODate                  time.Time       `json:"po_date"`
	Status                  string          `json:"status"`
	AssignedAccountEmployee *uuid.UUID      `json:"assigned_account_employee,omitempty"`
	ItemCount               int             `json:"item_count"`
	TotalAmount             decimal.Decimal `json:"total_amount"`
	CreatedAt               time.Time       `json:"created_at"`
}

// ==================== Assignment DTOs ====================

// ItemJobAssignmentInput binds one order item to a caller-supplied job number
type ItemJobAssignmentInput struct {
	OrderItemID uuid.UUID `json:"order_item_id" binding:"required"`
	JobNumber   string    `json:"job_number" binding:"required"`
}

// AssignJobNumbersRequest assigns a batch of items to one employee with
// explicit job numbers
type AssignJobNumbersRequest struct {
	EmployeeID  uuid.UUID                `json:"employee_id" binding:"required"`
	Assignments []ItemJobAssignmentInput `json:"assignments" binding:"required,min=1,dive"`
}

// IndexedAssignmentInput addresses an order item by position. A nil employee
// clears the item's assignment instead of creating one.
type IndexedAssignmentInput struct {
	ItemIndex  int        `json:"item_index" binding:"min=0"`
	EmployeeID *uuid.UUID `json:"employee_id"`
}

// GenerateAssignmentsRequest assigns items by index with generated job numbers
type GenerateAssignmentsRequest struct {
	Assignments []IndexedAssignmentInput `json:"assignments" binding:"required,min=1,dive"`
}

// UpdateItemProgressRequest reports manufacturing progress on a mapped item
type UpdateItemProgressRequest struct {
	ProgressPercentage int    `json:"progress_percentage" binding:"min=0,max=100"`
	Notes              string `json:"notes" binding:"max=500"`
}

// MappingResponse represents an item mapping in API responses
type MappingResponse struct {
	ID                 uuid.UUID  `json:"id"`
	OrderID            uuid.UUID  `json:"order_id"`
	OrderItemID        uuid.UUID  `json:"order_item_id"`
	ItemID             uuid.UUID  `json:"item_id"`
	AssignedEmployeeID uuid.UUID  `json:"assigned_employee_id"`
	JobNumber          string     `json:"job_number"`
	Status             string     `json:"status"`
	ProgressPercentage int        `json:"progress_percentage"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// OrderMappingsGroup represents the mappings of one order, with enough order
// context to render a work list
type OrderMappingsGroup struct {
	OrderID     uuid.UUID         `json:"order_id"`
	PONumber    string            `json:"po_number"`
	OrderStatus string            `json:"order_status"`
	Mappings    []MappingResponse `json:"mappings"`
}

// ==================== Summary DTOs ====================

// OrdersSummaryResponse is the dashboard order totals projection
type OrdersSummaryResponse struct {
	TotalOrders     int64 `json:"total_orders"`
	MappedOrders    int64 `json:"mapped_orders"`
	NotMappedOrders int64 `json:"not_mapped_orders"`
}

// EmployeeStatsResponse is the per-employee dashboard projection
type EmployeeStatsResponse struct {
	EmployeeID     uuid.UUID `json:"employee_id"`
	TotalAssigned  int64     `json:"total_assigned"`
	CompletedCount int64     `json:"completed_count"`
	PendingCount   int64     `json:"pending_count"`
}

// FlowCountsResponse maps every non-deleted stage to its order count
type FlowCountsResponse struct {
	Counts map[string]int64 `json:"counts"`
}

// ==================== Converters ====================

// ToOrderItemResponse converts a domain order item to a response DTO
func ToOrderItemResponse(item *workflow.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:           item.ID,
		ItemID:       item.ItemID,
		Name:         item.Name,
		Quantity:     item.Quantity,
		Unit:         item.Unit,
		Rate:         item.Rate,
		Amount:       item.Amount,
		DeliveryDate: item.DeliveryDate,
		AssignedTo:   item.AssignedTo,
		Completed:    item.Completed,
		Priority:     string(item.Priority),
	}
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(order *workflow.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for i := range order.Items {
		items = append(items, ToOrderItemResponse(&order.Items[i]))
	}

	history := make([]StatusEntryResponse, 0, len(order.StatusHistory))
	for _, entry := range order.StatusHistory {
		history = append(history, StatusEntryResponse{
			Status:    string(entry.Status),
			Note:      entry.Note,
			Timestamp: entry.Timestamp,
		})
	}

	return OrderResponse{
		ID:                      order.ID,
		PartyID:                 order.PartyID,
		PONumber:                order.PONumber,
		PODate:                  order.PODate,
		EstimatedDeliveryDate:   order.EstimatedDeliveryDate,
		Status:                  string(order.Status),
		AssignedAccountEmployee: order.AssignedAccountEmployee,
		Items:                   items,
		StatusHistory:           history,
		TotalAmount:             order.TotalAmount,
		Notes:                   order.Notes,
		CreatedAt:               order.CreatedAt,
		UpdatedAt:               order.UpdatedAt,
		Version:                 order.Version,
	}
}

// ToOrderListItemResponses converts domain orders to list response DTOs
func ToOrderListItemResponses(orders []workflow.Order) []OrderListItemResponse {
	responses := make([]OrderListItemResponse, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		responses = append(responses, OrderListItemResponse{
			ID:                      order.ID,
			PartyID:                 order.PartyID,
			PONumber:                order.PONumber,
			PODate:                  order.PODate,
			Status:                  string(order.Status),
			AssignedAccountEmployee: order.AssignedAccountEmployee,
			ItemCount:               len(order.Items),
			TotalAmount:             order.TotalAmount,
			CreatedAt:               order.CreatedAt,
		})
	}
	return responses
}

// ToMappingResponse converts a domain mapping to a response DTO
func ToMappingResponse(m *workflow.Mapping) MappingResponse {
	return MappingResponse{
		ID:                 m.ID,
		OrderID:            m.OrderID,
		OrderItemID:        m.OrderItemID,
		ItemID:             m.ItemID,
		AssignedEmployeeID: m.AssignedEmployeeID,
		JobNumber:          m.JobNumber,
		Status:             string(m.Status),
		ProgressPercentage: m.ProgressPercentage,
		StartedAt:          m.StartedAt,
		CompletedAt:        m.CompletedAt,
		Notes:              m.Notes,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// ToMappingResponses converts domain mappings to response DTOs
func ToMappingResponses(mappings []workflow.Mapping) []MappingResponse {
	responses := make([]MappingResponse, 0, len(mappings))
	for i := range mappings {
		responses = append(responses, ToMappingResponse(&mappings[i]))
	}
	return responses
}
